package utils

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var enumValues = map[string][]string{
	"budget_level":     {"economico", "medio", "luxo"},
	"itinerary_status": {"rascunho", "planejando", "confirmado", "em_andamento", "concluido"},
	"expense_category": {"hospedagem", "alimentacao", "transporte", "atracao", "compras", "outro"},
	"permission":       {"view", "edit"},
	"travel_style":     {"solo", "casal", "familia", "amigos", "mochileiro"},
	"pace":             {"relaxado", "moderado", "intenso"},
	"highlight":        {"acomodacao", "gastronomia", "atracao", "transporte", "custo_beneficio", "organizacao"},
}

// RegisterValidators adds the domain enum tags to gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return RegisterEnumValidators(v)
}

func RegisterEnumValidators(v *validator.Validate) error {
	for tag, allowed := range enumValues {
		if err := v.RegisterValidation(tag, oneOf(allowed)); err != nil {
			return err
		}
	}
	return nil
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		for _, a := range allowed {
			if value == a {
				return true
			}
		}
		return false
	}
}
