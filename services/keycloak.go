package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

var (
	ErrTokenExpirado   = errors.New("token expirado")
	ErrEmissorInvalido = errors.New("emissor do token não reconhecido")
)

// KeycloakClaims são as informações extraídas do token de acesso.
type KeycloakClaims struct {
	Subject   string
	Email     string
	Username  string
	FirstName string
	LastName  string
	Roles     []string
}

// KeycloakClient valida tokens emitidos pelo Keycloak.
//
// A validação local (expiração + emissor) é sempre aplicada; a
// introspecção remota confirma que o token continua vivo, mas fica em
// modo melhor-esforço: indisponibilidade do Keycloak não derruba a
// requisição, só rebaixa para validação local.
type KeycloakClient struct {
	ServerURL    string
	Realm        string
	ClientID     string
	ClientSecret string

	httpClient *http.Client
	log        zerolog.Logger
}

func NewKeycloakClient(serverURL, realm, clientID, clientSecret string, timeout time.Duration, log zerolog.Logger) *KeycloakClient {
	return &KeycloakClient{
		ServerURL:    strings.TrimRight(serverURL, "/"),
		Realm:        realm,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: timeout},
		log:          log.With().Str("component", "keycloak").Logger(),
	}
}

// ValidIssuers aceita o endereço público e os internos da rede docker.
func (k *KeycloakClient) ValidIssuers() []string {
	return []string{
		fmt.Sprintf("%s/realms/%s", k.ServerURL, k.Realm),
		fmt.Sprintf("http://localhost:8080/realms/%s", k.Realm),
		fmt.Sprintf("http://keycloak-auth:8080/realms/%s", k.Realm),
	}
}

// DecodeToken faz a validação local do token: estrutura, expiração e
// emissor. A assinatura não é conferida aqui; a introspecção remota
// é quem atesta a autenticidade quando alcançável.
func (k *KeycloakClient) DecodeToken(tokenString string) (*KeycloakClaims, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("token malformado: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil || exp.Before(time.Now()) {
		return nil, ErrTokenExpirado
	}

	iss, _ := claims.GetIssuer()
	valid := false
	for _, candidate := range k.ValidIssuers() {
		if iss == candidate {
			valid = true
			break
		}
	}
	if !valid {
		k.log.Warn().Str("iss", iss).Msg("emissor inválido")
		return nil, ErrEmissorInvalido
	}

	out := &KeycloakClaims{
		Subject:   stringClaim(claims, "sub"),
		Email:     stringClaim(claims, "email"),
		Username:  stringClaim(claims, "preferred_username"),
		FirstName: stringClaim(claims, "given_name"),
		LastName:  stringClaim(claims, "family_name"),
	}

	if access, ok := claims["realm_access"].(map[string]any); ok {
		if roles, ok := access["roles"].([]any); ok {
			for _, r := range roles {
				if s, ok := r.(string); ok {
					out.Roles = append(out.Roles, s)
				}
			}
		}
	}

	return out, nil
}

// Introspect consulta o endpoint de introspecção e informa se o token
// continua ativo. Erro de rede é reportado como erro, nunca como
// token inativo.
func (k *KeycloakClient) Introspect(ctx context.Context, token string) (bool, error) {
	endpoint := fmt.Sprintf(
		"%s/realms/%s/protocol/openid-connect/token/introspect",
		k.ServerURL, k.Realm,
	)

	form := url.Values{}
	form.Set("token", token)
	form.Set("client_id", k.ClientID)
	if k.ClientSecret != "" {
		form.Set("client_secret", k.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("introspecção retornou status %d", resp.StatusCode)
	}

	var body struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}
	return body.Active, nil
}

// Validate combina a validação local com a introspecção remota.
// Keycloak inalcançável segue com a validação local; token
// explicitamente inativo é rejeitado.
func (k *KeycloakClient) Validate(ctx context.Context, token string) (*KeycloakClaims, error) {
	claims, err := k.DecodeToken(token)
	if err != nil {
		return nil, err
	}

	active, err := k.Introspect(ctx, token)
	if err != nil {
		k.log.Warn().Err(err).Msg("introspecção indisponível, usando validação local")
		return claims, nil
	}
	if !active {
		return nil, errors.New("token inativo segundo o Keycloak")
	}

	return claims, nil
}

// Health verifica se o Keycloak responde, com timeout finito.
func (k *KeycloakClient) Health(ctx context.Context) error {
	if k.ServerURL == "" {
		return errors.New("KEYCLOAK_SERVER_URL não configurado")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.ServerURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("Keycloak não está acessível: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Keycloak não está respondendo (status %d)", resp.StatusCode)
	}
	return nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
