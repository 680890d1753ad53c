package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	require.NoError(t, err)
	return token
}

func testKeycloak(serverURL string) *KeycloakClient {
	return NewKeycloakClient(serverURL, "nit", "nit-backend", "secret", 2*time.Second, zerolog.Nop())
}

func TestDecodeToken(t *testing.T) {
	kc := testKeycloak("http://keycloak.example.com")

	token := testToken(t, jwt.MapClaims{
		"sub":                "abc-123",
		"email":              "user@nit.local",
		"preferred_username": "user",
		"iss":                "http://keycloak.example.com/realms/nit",
		"exp":                time.Now().Add(time.Hour).Unix(),
		"realm_access":       map[string]any{"roles": []any{"api-access", "admin"}},
	})

	claims, err := kc.DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", claims.Subject)
	assert.Equal(t, "user@nit.local", claims.Email)
	assert.Equal(t, "user", claims.Username)
	assert.Equal(t, []string{"api-access", "admin"}, claims.Roles)
}

func TestDecodeTokenExpired(t *testing.T) {
	kc := testKeycloak("http://keycloak.example.com")

	token := testToken(t, jwt.MapClaims{
		"sub": "abc-123",
		"iss": "http://keycloak.example.com/realms/nit",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err := kc.DecodeToken(token)
	assert.ErrorIs(t, err, ErrTokenExpirado)
}

func TestDecodeTokenMissingExp(t *testing.T) {
	kc := testKeycloak("http://keycloak.example.com")

	token := testToken(t, jwt.MapClaims{
		"sub": "abc-123",
		"iss": "http://keycloak.example.com/realms/nit",
	})

	_, err := kc.DecodeToken(token)
	assert.ErrorIs(t, err, ErrTokenExpirado)
}

func TestDecodeTokenWrongIssuer(t *testing.T) {
	kc := testKeycloak("http://keycloak.example.com")

	token := testToken(t, jwt.MapClaims{
		"sub": "abc-123",
		"iss": "http://evil.example.com/realms/nit",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := kc.DecodeToken(token)
	assert.ErrorIs(t, err, ErrEmissorInvalido)
}

func TestDecodeTokenMalformed(t *testing.T) {
	kc := testKeycloak("http://keycloak.example.com")
	_, err := kc.DecodeToken("not.a.jwt")
	assert.Error(t, err)
}

func TestIntrospect(t *testing.T) {
	var gotToken, gotClientID string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/realms/nit/protocol/openid-connect/token/introspect", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotToken = r.PostForm.Get("token")
		gotClientID = r.PostForm.Get("client_id")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"active": true}`))
	}))
	defer ts.Close()

	kc := testKeycloak(ts.URL)
	active, err := kc.Introspect(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.True(t, active)
	assert.Equal(t, "tok-1", gotToken)
	assert.Equal(t, "nit-backend", gotClientID)
}

func TestIntrospectInactive(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"active": false}`))
	}))
	defer ts.Close()

	kc := testKeycloak(ts.URL)
	active, err := kc.Introspect(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestIntrospectServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	kc := testKeycloak(ts.URL)
	_, err := kc.Introspect(context.Background(), "tok-1")
	assert.Error(t, err)
}

func TestValidateFallsBackWhenIntrospectionUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := ts.URL
	ts.Close()

	kc := testKeycloak(serverURL)
	token := testToken(t, jwt.MapClaims{
		"sub": "abc-123",
		"iss": serverURL + "/realms/nit",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := kc.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", claims.Subject)
}

func TestValidateRejectsInactiveToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"active": false}`))
	}))
	defer ts.Close()

	kc := testKeycloak(ts.URL)
	token := testToken(t, jwt.MapClaims{
		"sub": "abc-123",
		"iss": ts.URL + "/realms/nit",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := kc.Validate(context.Background(), token)
	assert.Error(t, err)
}

func TestKeycloakHealth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
	}))
	defer ts.Close()

	kc := testKeycloak(ts.URL)
	assert.NoError(t, kc.Health(context.Background()))
}

func TestKeycloakHealthDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	kc := testKeycloak(ts.URL)
	assert.Error(t, kc.Health(context.Background()))

	unconfigured := testKeycloak("")
	assert.Error(t, unconfigured.Health(context.Background()))
}
