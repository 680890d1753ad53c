package models

import "strings"

// BrazilStates são as UFs aceitas no campo state.
var BrazilStates = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT",
	"MS", "MG", "PA", "PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO",
	"RR", "SC", "SP", "SE", "TO",
}

type Address struct {
	BaseModel

	Street     string `gorm:"size:255" json:"street"`
	District   string `gorm:"size:255" json:"district"`
	Number     string `gorm:"size:255" json:"number"`
	Complement string `gorm:"size:255" json:"complement"`
	City       string `gorm:"size:255" json:"city"`
	State      string `gorm:"size:2" json:"state"`
	Country    string `gorm:"size:255" json:"country"`
	CEP        string `gorm:"size:9" json:"cep"`
}

func (Address) TableName() string {
	return "addresses"
}

// ValidBrazilState informa se a UF é conhecida.
func ValidBrazilState(uf string) bool {
	uf = strings.ToUpper(uf)
	for _, s := range BrazilStates {
		if s == uf {
			return true
		}
	}
	return false
}

// FullAddress monta o endereço completo em uma linha.
func (a *Address) FullAddress() string {
	var parts []string

	if a.Street != "" {
		street := a.Street
		if a.Number != "" {
			street += ", " + a.Number
		}
		if a.Complement != "" {
			street += " - " + a.Complement
		}
		parts = append(parts, street)
	}
	if a.District != "" {
		parts = append(parts, a.District)
	}
	if a.City != "" {
		city := a.City
		if a.State != "" {
			city += " - " + a.State
		}
		parts = append(parts, city)
	}
	if a.CEP != "" {
		parts = append(parts, "CEP: "+a.CEP)
	}

	if len(parts) == 0 {
		return "Endereço não informado"
	}
	return strings.Join(parts, ", ")
}
