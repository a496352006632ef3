package jwt

import (
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse(t *testing.T) {
	tok, err := Generate(testSecret, "operario-1", "fabrica-test", 60)
	require.NoError(t, err)

	userID, err := Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "operario-1", userID)
}

func TestParse_FallsBackToSubject(t *testing.T) {
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{Subject: "operario-2"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	userID, err := Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "operario-2", userID)
}

func TestParse_Rejects(t *testing.T) {
	// fuera de la tolerancia de reloj
	expired, err := Generate(testSecret, "operario-1", "fabrica-test", -5)
	require.NoError(t, err)
	valid, err := Generate(testSecret, "operario-1", "fabrica-test", 60)
	require.NoError(t, err)
	hs512, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, Claims{UserID: "operario-1"}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	anonymous, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{Issuer: "x"}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"expirado", testSecret, expired},
		{"secret incorrecto", "otro-secret", valid},
		{"malformado", testSecret, "token.invalido.aqui"},
		{"secret vacío", "", valid},
		{"algoritmo distinto", testSecret, hs512},
		{"sin operador", testSecret, anonymous},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.secret, tt.token)
			assert.Error(t, err)
		})
	}
}

func TestGenerate_EmptySecret(t *testing.T) {
	_, err := Generate("", "operario-1", "fabrica-test", 60)
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestClaims_Operator(t *testing.T) {
	assert.Equal(t, "a", (&Claims{UserID: "a", RegisteredClaims: gojwt.RegisteredClaims{Subject: "b"}}).Operator())
	assert.Equal(t, "b", (&Claims{RegisteredClaims: gojwt.RegisteredClaims{Subject: "b"}}).Operator())
}
