package generator

import (
	"context"
	"fmt"

	"viajei/internal/models/db_models"
)

// MockGenerator builds a fixed five-activity day for every day of the trip.
type MockGenerator struct{}

func (MockGenerator) Name() string { return "mock" }

func (MockGenerator) Generate(_ context.Context, req Request) (*Plan, error) {
	n := req.Days()
	days := make([]db_models.Day, 0, n)
	city := req.City
	center := "Centro de " + city

	for i := 1; i <= n; i++ {
		days = append(days, db_models.Day{
			DayNumber: i,
			Title:     fmt.Sprintf("Explorando %s - Dia %d", city, i),
			Activities: []db_models.Activity{
				mockActivity("09:00", "Café da manhã local", "Experimente a culinária típica de "+city, "Café Central", center, 30, 60, "alimentacao", 0),
				mockActivity("10:30", "Visita ao centro histórico", "Conheça os principais pontos turísticos de "+city, "Centro Histórico", center, 50, 180, "atracao", 1),
				mockActivity("14:00", "Almoço em restaurante típico", "Saboreie pratos tradicionais da região", "Restaurante Tradicional", center, 80, 90, "alimentacao", 2),
				mockActivity("16:00", "Compras e souvenirs", "Visite mercados locais e lojas de artesanato", "Mercado Municipal", center, 100, 120, "compras", 3),
				mockActivity("19:00", "Jantar com vista", "Encerre o dia com um jantar especial", "Restaurante Panorâmico", center, 120, 120, "alimentacao", 4),
			},
		})
	}
	return &Plan{Days: days}, nil
}

func mockActivity(at, title, desc, place, address string, cost float64, minutes int, category string, offset int) db_models.Activity {
	return db_models.Activity{
		Time:        at,
		Title:       title,
		Description: desc,
		Location: &db_models.Location{
			Name:    place,
			Address: address,
			Coordinates: &db_models.Coordinates{
				Lat: -23.550520 - float64(offset)*0.001,
				Lng: -46.633308 - float64(offset)*0.001,
			},
		},
		EstimatedCost: cost,
		Duration:      minutes,
		Category:      category,
	}
}
