package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCPF(t *testing.T) {
	assert.True(t, ValidateCPF("11144477735"))
	assert.True(t, ValidateCPF("52998224725"))

	assert.False(t, ValidateCPF("11111111111"), "dígitos repetidos")
	assert.False(t, ValidateCPF("00000000000"))
	assert.False(t, ValidateCPF("11144477734"), "segundo dígito verificador errado")
	assert.False(t, ValidateCPF("11144477725"), "primeiro dígito verificador errado")
	assert.False(t, ValidateCPF("1114447773"), "curto demais")
	assert.False(t, ValidateCPF("111444777350"), "longo demais")
	assert.False(t, ValidateCPF("111.444.777-35"), "formatação não aceita aqui")
}

func TestValidateCNPJ(t *testing.T) {
	assert.True(t, ValidateCNPJ("11222333000181"))
	assert.True(t, ValidateCNPJ("11444777000161"))

	assert.False(t, ValidateCNPJ("11111111111111"))
	assert.False(t, ValidateCNPJ("11222333000182"), "dígito verificador errado")
	assert.False(t, ValidateCNPJ("1122233300018"))
}

func TestValidateCPFCNPJ(t *testing.T) {
	clean, err := ValidateCPFCNPJ("111.444.777-35")
	require.NoError(t, err)
	assert.Equal(t, "11144477735", clean)

	clean, err = ValidateCPFCNPJ("11.222.333/0001-81")
	require.NoError(t, err)
	assert.Equal(t, "11222333000181", clean)

	_, err = ValidateCPFCNPJ("111.111.111-11")
	assert.ErrorIs(t, err, ErrCPFInvalido)

	_, err = ValidateCPFCNPJ("11.222.333/0001-82")
	assert.ErrorIs(t, err, ErrCNPJInvalido)

	_, err = ValidateCPFCNPJ("12345")
	assert.ErrorIs(t, err, ErrCPFCNPJInvalido)

	_, err = ValidateCPFCNPJ("")
	assert.ErrorIs(t, err, ErrCPFCNPJInvalido)
}

func TestNormalizeCEP(t *testing.T) {
	cep, err := NormalizeCEP("01310100")
	require.NoError(t, err)
	assert.Equal(t, "01310-100", cep)

	cep, err = NormalizeCEP("01310-100")
	require.NoError(t, err)
	assert.Equal(t, "01310-100", cep)

	cep, err = NormalizeCEP("")
	require.NoError(t, err)
	assert.Equal(t, "", cep)

	_, err = NormalizeCEP("0131010")
	assert.ErrorIs(t, err, ErrCEPInvalido)

	_, err = NormalizeCEP("013101000")
	assert.ErrorIs(t, err, ErrCEPInvalido)
}

func TestNormalizePhone(t *testing.T) {
	phone, err := NormalizePhone("(11) 3333-4444")
	require.NoError(t, err)
	assert.Equal(t, "1133334444", phone)

	phone, err = NormalizePhone("")
	require.NoError(t, err)
	assert.Equal(t, "", phone)

	_, err = NormalizePhone("(11) 93333-4444")
	assert.ErrorIs(t, err, ErrPhoneInvalido, "onze dígitos é celular, não fixo")
}

func TestNormalizeCellphone(t *testing.T) {
	cell, err := NormalizeCellphone("(11) 93333-4444")
	require.NoError(t, err)
	assert.Equal(t, "11933334444", cell)

	_, err = NormalizeCellphone("(11) 3333-4444")
	assert.ErrorIs(t, err, ErrCellInvalido)
}

func TestNormalizeRG(t *testing.T) {
	rg, err := NormalizeRG("12.345.678-9")
	require.NoError(t, err)
	assert.Equal(t, "123456789", rg)

	rg, err = NormalizeRG("12.345.678-x")
	require.NoError(t, err)
	assert.Equal(t, "12345678X", rg)

	_, err = NormalizeRG("abc")
	assert.ErrorIs(t, err, ErrRGInvalido)
}

func TestTitleTrim(t *testing.T) {
	assert.Equal(t, "São Paulo", TitleTrim("  são paulo "))
	assert.Equal(t, "Belo Horizonte", TitleTrim("BELO HORIZONTE"))
}

func TestNormalizeCountry(t *testing.T) {
	assert.Equal(t, "Brasil", NormalizeCountry("brasil"))
	assert.Equal(t, "Brasil", NormalizeCountry("Brazil"))
	assert.Equal(t, "Brasil", NormalizeCountry("BR"))
	assert.Equal(t, "Argentina", NormalizeCountry("argentina"))
}
