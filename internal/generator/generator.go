package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"viajei/internal/models/db_models"
	"viajei/pkg/utils"
)

// ErrEmptyPlan is returned when a provider answers without any day.
var ErrEmptyPlan = errors.New("generator returned no days")

type Request struct {
	City        string    `json:"city"`
	Country     string    `json:"country"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	BudgetLevel string    `json:"budgetLevel"`
	Currency    string    `json:"currency"`
	Interests   []string  `json:"interests"`
	TravelStyle string    `json:"travelStyle"`
	Pace        string    `json:"pace"`
}

func (r Request) Days() int {
	return db_models.TripDuration(r.StartDate, r.EndDate)
}

type Plan struct {
	Days []db_models.Day `json:"days"`
}

type ItineraryGenerator interface {
	Generate(ctx context.Context, req Request) (*Plan, error)
	Name() string
}

const systemPrompt = "Você é um assistente de viagens especializado em criar roteiros detalhados e otimizados. " +
	"Sempre responda APENAS com JSON válido, sem texto adicional."

func buildPrompt(req Request) string {
	interests := strings.Join(req.Interests, ", ")
	if interests == "" {
		interests = "geral"
	}
	style := req.TravelStyle
	if style == "" {
		style = "relaxante"
	}
	pace := req.Pace
	if pace == "" {
		pace = "moderado"
	}

	return fmt.Sprintf(`Você é um especialista em planejamento de viagens. Crie um roteiro detalhado em português brasileiro para:

**Destino:** %s, %s
**Duração:** %d dias (%s até %s)
**Orçamento:** %s (%s)
**Estilo de viagem:** %s
**Ritmo:** %s
**Interesses:** %s

Para cada dia, forneça atividades variadas. Inclua:
- Horários realistas (formato 24h como "09:00")
- Custos estimados em %s apropriados ao nível "%s"
- Coordenadas geográficas reais ou próximas do destino
- Categorias: transporte, alimentacao, atracao, hospedagem, compras, outro

Retorne APENAS um JSON válido neste formato:
{"days":[{"dayNumber":1,"title":"Título do dia","activities":[{"time":"09:00","title":"Nome","description":"Descrição","location":{"name":"Local","address":"Endereço","coordinates":{"lat":0,"lng":0}},"estimatedCost":50,"duration":120,"category":"atracao"}]}]}`,
		req.City, req.Country,
		req.Days(), req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"),
		req.BudgetLevel, req.Currency,
		style, pace, interests,
		req.Currency, req.BudgetLevel,
	)
}

// decodePlan parses a provider answer, tolerating a markdown fence around the JSON.
func decodePlan(content string) (*Plan, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var plan Plan
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if len(plan.Days) == 0 {
		return nil, ErrEmptyPlan
	}
	return &plan, nil
}

var activityCategories = map[string]bool{
	"transporte":  true,
	"alimentacao": true,
	"atracao":     true,
	"hospedagem":  true,
	"compras":     true,
	"outro":       true,
}

// Normalize numbers the days 1..n, dates them from the request start and
// fills dailyBudget with the sum of the activity costs.
func Normalize(plan *Plan, req Request) {
	db_models.EnsureIDs(plan.Days)
	for i := range plan.Days {
		day := &plan.Days[i]
		day.DayNumber = i + 1
		day.Date = utils.AddDays(req.StartDate, i)
		if day.Title == "" {
			day.Title = fmt.Sprintf("Dia %d em %s", day.DayNumber, req.City)
		}

		var total float64
		for a := range day.Activities {
			act := &day.Activities[a]
			if !activityCategories[act.Category] {
				act.Category = "atracao"
			}
			if act.EstimatedCost < 0 {
				act.EstimatedCost = 0
			}
			total += act.EstimatedCost
		}
		if day.Activities == nil {
			day.Activities = []db_models.Activity{}
		}
		day.DailyBudget = total
	}
}
