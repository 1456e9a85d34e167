package services

import (
	"viajei/internal/models/db_models"
	"viajei/pkg/utils"
)

type AchievementDefinition struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Points      int    `json:"points"`
}

// AchievementCatalog is ordered; listings and unlock results follow this order.
var AchievementCatalog = []AchievementDefinition{
	{"first_itinerary", "Primeiro Passo", "Criou seu primeiro roteiro de viagem", "🎯", 10},
	{"itinerary_master", "Planejador Experiente", "Criou 5 roteiros de viagem", "📋", 25},
	{"world_traveler", "Viajante do Mundo", "Criou 10 roteiros de viagem", "🌍", 50},
	{"first_trip_complete", "Primeira Aventura", "Completou sua primeira viagem", "✈️", 20},
	{"seasoned_traveler", "Viajante Experiente", "Completou 5 viagens", "🎒", 40},
	{"globe_trotter", "Desbravador Global", "Completou 10 viagens", "🏆", 100},
	{"budget_conscious", "Economista", "Completou uma viagem dentro do orçamento", "💰", 15},
	{"luxury_traveler", "Viajante de Luxo", "Completou uma viagem de luxo", "💎", 30},
	{"social_butterfly", "Influenciador", "Compartilhou 5 roteiros", "🦋", 20},
	{"collaborator", "Trabalho em Equipe", "Adicionou seu primeiro colaborador", "🤝", 15},
	{"team_player", "Líder de Grupo", "Criou 5 roteiros com colaboradores", "👥", 35},
	{"photographer", "Fotógrafo Viajante", "Adicionou 50 fotos aos seus roteiros", "📸", 25},
	{"reviewer", "Crítico de Viagens", "Avaliou 5 viagens", "⭐", 30},
	{"early_bird", "Planejador Antecipado", "Planejou viagem com 3+ meses de antecedência", "🐦", 20},
	{"spontaneous", "Aventureiro Espontâneo", "Criou roteiro para viagem em menos de 1 semana", "⚡", 15},
	{"weekend_warrior", "Mestre dos Finais de Semana", "Completou 5 viagens de fim de semana", "🌅", 25},
	{"long_hauler", "Viajante de Longa Distância", "Completou viagem de 14+ dias", "🛫", 40},
	{"multi_destination", "Explorador Multi-Destinos", "Criou roteiro visitando 3+ cidades", "🗺️", 25},
	{"budget_keeper", "Guardião do Orçamento", "Completou 3 viagens dentro do orçamento", "🎯", 50},
	{"influencer", "Influenciador de Viagens", "100+ visualizações em roteiros públicos", "🌟", 75},
}

func catalogEntry(achievementType string) (AchievementDefinition, bool) {
	for _, def := range AchievementCatalog {
		if def.Type == achievementType {
			return def, true
		}
	}
	return AchievementDefinition{}, false
}

// activitySnapshot holds the counters every rule is evaluated against.
type activitySnapshot struct {
	itineraries       int
	completed         int
	withinBudget      int
	luxuryCompleted   int
	shared            int
	withCollaborators int
	photos            int
	ratings           int
	weekendTrips      int
	longTrips         int
	earlyPlanned      int
	lastMinute        int
}

func snapshotActivity(itineraries []db_models.Itinerary, ratings []db_models.Rating) activitySnapshot {
	s := activitySnapshot{itineraries: len(itineraries), ratings: len(ratings)}

	for i := range itineraries {
		it := &itineraries[i]

		if it.PublicLink != nil && *it.PublicLink != "" {
			s.shared++
		}
		if len(it.Collaborators) > 0 {
			s.withCollaborators++
		}
		s.photos += len(it.Photos)

		if !it.StartDate.IsZero() && it.CreatedAt != 0 {
			lead := utils.DaysBetween(it.CreatedTime(), it.StartDate)
			if lead >= 90 {
				s.earlyPlanned++
			}
			if lead <= 7 {
				s.lastMinute++
			}
		}

		if !it.IsCompleted() {
			continue
		}
		s.completed++
		if it.Budget.Spent <= it.Budget.EstimatedTotal {
			s.withinBudget++
		}
		if it.Budget.Level == db_models.BudgetLuxury {
			s.luxuryCompleted++
		}
		if it.Duration >= 2 && it.Duration <= 3 {
			s.weekendTrips++
		}
		if it.Duration >= 14 {
			s.longTrips++
		}
	}
	return s
}

var achievementRules = map[string]func(s activitySnapshot) bool{
	"first_itinerary":     func(s activitySnapshot) bool { return s.itineraries >= 1 },
	"itinerary_master":    func(s activitySnapshot) bool { return s.itineraries >= 5 },
	"world_traveler":      func(s activitySnapshot) bool { return s.itineraries >= 10 },
	"first_trip_complete": func(s activitySnapshot) bool { return s.completed >= 1 },
	"seasoned_traveler":   func(s activitySnapshot) bool { return s.completed >= 5 },
	"globe_trotter":       func(s activitySnapshot) bool { return s.completed >= 10 },
	"budget_conscious":    func(s activitySnapshot) bool { return s.withinBudget >= 1 },
	"budget_keeper":       func(s activitySnapshot) bool { return s.withinBudget >= 3 },
	"luxury_traveler":     func(s activitySnapshot) bool { return s.luxuryCompleted >= 1 },
	"social_butterfly":    func(s activitySnapshot) bool { return s.shared >= 5 },
	"collaborator":        func(s activitySnapshot) bool { return s.withCollaborators >= 1 },
	"team_player":         func(s activitySnapshot) bool { return s.withCollaborators >= 5 },
	"photographer":        func(s activitySnapshot) bool { return s.photos >= 50 },
	"reviewer":            func(s activitySnapshot) bool { return s.ratings >= 5 },
	"weekend_warrior":     func(s activitySnapshot) bool { return s.weekendTrips >= 5 },
	"long_hauler":         func(s activitySnapshot) bool { return s.longTrips >= 1 },
	"early_bird":          func(s activitySnapshot) bool { return s.earlyPlanned >= 1 },
	"spontaneous":         func(s activitySnapshot) bool { return s.lastMinute >= 1 },
}

// satisfiedAchievements returns the catalog types whose rule holds, in catalog order.
// Types without a rule (multi_destination, influencer) are never returned.
func satisfiedAchievements(itineraries []db_models.Itinerary, ratings []db_models.Rating) []string {
	s := snapshotActivity(itineraries, ratings)
	var out []string
	for _, def := range AchievementCatalog {
		rule, ok := achievementRules[def.Type]
		if ok && rule(s) {
			out = append(out, def.Type)
		}
	}
	return out
}
