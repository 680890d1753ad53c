package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipos de campo aceitos pelos filtros de listagem.
type FilterKind int

const (
	FilterString FilterKind = iota
	FilterBool
	FilterDate
	FilterUUID
)

// FilterField declara um campo filtrável de um recurso: nome do
// parâmetro exposto na query string e coluna correspondente. O
// mapeamento é explícito por recurso, sem reflexão em runtime.
type FilterField struct {
	Param  string
	Column string
	Kind   FilterKind
}

// FilterSet é o conjunto de campos filtráveis de um recurso de
// listagem. Parâmetros não declarados são ignorados em silêncio.
type FilterSet struct {
	Fields []FilterField
}

// Condition é uma cláusula já resolvida, pronta para aplicar no ORM.
type Condition struct {
	Expr string
	Args []any
}

// parâmetros reservados de paginação, nunca tratados como filtro
var reservedParams = map[string]bool{
	"page":  true,
	"limit": true,
}

// Resolve converte os parâmetros da query string em condições.
// Suporta o sufixo de lookup `__icontains` para campos string e
// coerção de booleanos ("true"/"bool(true)"/...) e datas (yyyy-mm-dd).
// Valores malformados descartam o parâmetro, nunca derrubam a consulta.
func (fs FilterSet) Resolve(params map[string]string) []Condition {
	var conds []Condition

	for param, value := range params {
		if reservedParams[param] {
			continue
		}

		name, lookup := splitLookup(param)
		field, ok := fs.field(name)
		if !ok {
			continue
		}
		// Lookup desconhecido descarta o parâmetro, como um campo
		// não declarado. Só `__icontains` em campos string é aceito.
		if lookup != "" && !(field.Kind == FilterString && lookup == "icontains") {
			continue
		}

		switch field.Kind {
		case FilterBool:
			if b, ok := coerceBool(value); ok {
				conds = append(conds, Condition{Expr: field.Column + " = ?", Args: []any{b}})
			}
		case FilterDate:
			if t, err := time.Parse("2006-01-02", value); err == nil {
				// Filtro por dia inteiro
				conds = append(conds, Condition{
					Expr: fmt.Sprintf("%s >= ? AND %s < ?", field.Column, field.Column),
					Args: []any{t, t.Add(24 * time.Hour)},
				})
			}
		case FilterUUID:
			if id, err := uuid.Parse(value); err == nil {
				conds = append(conds, Condition{Expr: field.Column + " = ?", Args: []any{id}})
			}
		default:
			if lookup == "icontains" {
				conds = append(conds, Condition{Expr: field.Column + " ILIKE ?", Args: []any{"%" + value + "%"}})
			} else {
				conds = append(conds, Condition{Expr: field.Column + " = ?", Args: []any{value}})
			}
		}
	}

	return conds
}

// Apply resolve os parâmetros e aplica as condições na consulta.
func (fs FilterSet) Apply(db *gorm.DB, params map[string]string) *gorm.DB {
	for _, cond := range fs.Resolve(params) {
		db = db.Where(cond.Expr, cond.Args...)
	}
	return db
}

func (fs FilterSet) field(name string) (FilterField, bool) {
	for _, f := range fs.Fields {
		if f.Param == name {
			return f, true
		}
	}
	return FilterField{}, false
}

func splitLookup(param string) (name, lookup string) {
	if idx := strings.Index(param, "__"); idx >= 0 {
		return param[:idx], param[idx+2:]
	}
	return param, ""
}

func coerceBool(value string) (bool, bool) {
	switch strings.ToLower(value) {
	case "true", "bool(true)", "1":
		return true, true
	case "false", "bool(false)", "0":
		return false, true
	}
	return false, false
}
