package utils

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrCPFInvalido     = errors.New("CPF inválido.")
	ErrCNPJInvalido    = errors.New("CNPJ inválido.")
	ErrCPFCNPJInvalido = errors.New("CPF ou CNPJ inválido.")
	ErrCEPInvalido     = errors.New("CEP deve ter 8 dígitos.")
	ErrPhoneInvalido   = errors.New("Telefone fixo inválido.")
	ErrCellInvalido    = errors.New("Telefone celular inválido.")
	ErrRGInvalido      = errors.New("RG inválido.")
)

var (
	cpfWeights  = [2][]int{{10, 9, 8, 7, 6, 5, 4, 3, 2}, {11, 10, 9, 8, 7, 6, 5, 4, 3, 2}}
	cnpjWeights = [2][]int{{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}, {6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}}

	phoneRegex = regexp.MustCompile(`^\d{10}$`)
	cellRegex  = regexp.MustCompile(`^\d{11}$`)
	rgRegex    = regexp.MustCompile(`^\d{7,8}[0-9xX]$`)
	nonDigits  = regexp.MustCompile(`\D`)
)

// OnlyDigits remove tudo que não for dígito.
func OnlyDigits(value string) string {
	return nonDigits.ReplaceAllString(value, "")
}

func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

func allSameDigits(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

// ValidateCPF valida os dois dígitos verificadores de um CPF com 11
// dígitos. Sequências de dígitos repetidos (111.111.111-11) são
// rejeitadas antes do cálculo.
func ValidateCPF(cpf string) bool {
	if len(cpf) != 11 || OnlyDigits(cpf) != cpf {
		return false
	}
	if allSameDigits(cpf) {
		return false
	}
	if checkDigit(cpf[:9], cpfWeights[0]) != int(cpf[9]-'0') {
		return false
	}
	return checkDigit(cpf[:10], cpfWeights[1]) == int(cpf[10]-'0')
}

// ValidateCNPJ valida os dois dígitos verificadores de um CNPJ com 14
// dígitos.
func ValidateCNPJ(cnpj string) bool {
	if len(cnpj) != 14 || OnlyDigits(cnpj) != cnpj {
		return false
	}
	if allSameDigits(cnpj) {
		return false
	}
	if checkDigit(cnpj[:12], cnpjWeights[0]) != int(cnpj[12]-'0') {
		return false
	}
	return checkDigit(cnpj[:13], cnpjWeights[1]) == int(cnpj[13]-'0')
}

// ValidateCPFCNPJ limpa a formatação e valida como CPF (11 dígitos) ou
// CNPJ (14 dígitos). Retorna o valor limpo.
func ValidateCPFCNPJ(value string) (string, error) {
	clean := OnlyDigits(value)
	switch len(clean) {
	case 11:
		if !ValidateCPF(clean) {
			return "", ErrCPFInvalido
		}
	case 14:
		if !ValidateCNPJ(clean) {
			return "", ErrCNPJInvalido
		}
	default:
		return "", ErrCPFCNPJInvalido
	}
	return clean, nil
}

// NormalizeCEP limpa a formatação e devolve o CEP no padrão XXXXX-XXX.
// Vazio é aceito; qualquer outra coisa que não tenha 8 dígitos é erro.
func NormalizeCEP(cep string) (string, error) {
	clean := OnlyDigits(cep)
	if clean == "" {
		return "", nil
	}
	if len(clean) != 8 {
		return "", ErrCEPInvalido
	}
	return clean[:5] + "-" + clean[5:], nil
}

// NormalizePhone limpa e valida telefone fixo (10 dígitos com DDD).
func NormalizePhone(value string) (string, error) {
	clean := stripPhoneChars(value)
	if clean == "" {
		return "", nil
	}
	if !phoneRegex.MatchString(clean) {
		return "", ErrPhoneInvalido
	}
	return clean, nil
}

// NormalizeCellphone limpa e valida celular (11 dígitos com DDD).
func NormalizeCellphone(value string) (string, error) {
	clean := stripPhoneChars(value)
	if clean == "" {
		return "", nil
	}
	if !cellRegex.MatchString(clean) {
		return "", ErrCellInvalido
	}
	return clean, nil
}

// NormalizeRG limpa a formatação e valida o padrão de RG.
func NormalizeRG(value string) (string, error) {
	clean := strings.ToUpper(strings.NewReplacer("-", "", ".", "", " ", "", "/", "").Replace(value))
	if clean == "" {
		return "", nil
	}
	if !rgRegex.MatchString(clean) {
		return "", ErrRGInvalido
	}
	return clean, nil
}

func stripPhoneChars(value string) string {
	return strings.NewReplacer("-", "", "(", "", ")", "", " ", "", "+", "").Replace(value)
}
