package gcs

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticTokenSource(token string) *tokenSource {
	return &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			return token, time.Now().Add(time.Hour), nil
		},
	}
}

func TestUploadPostsMediaToBucket(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"name":"x"}`))
	}))
	defer server.Close()

	client := &Client{
		httpClient:    server.Client(),
		defaultBucket: "assets",
		tokenSource:   staticTokenSource("tok"),
		uploadBase:    server.URL,
	}

	err := client.Upload(context.Background(), "", "stores/1/logo.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/b/assets/o", gotPath)
	assert.Contains(t, gotQuery, "uploadType=media")
	assert.Contains(t, gotQuery, "name=stores%2F1%2Flogo.png")
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "png-bytes", gotBody)
}

func TestUploadSurfacesProviderErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden bucket", http.StatusForbidden)
	}))
	defer server.Close()

	client := &Client{
		httpClient:    server.Client(),
		defaultBucket: "assets",
		tokenSource:   staticTokenSource("tok"),
		uploadBase:    server.URL,
	}

	err := client.Upload(context.Background(), "assets", "a.txt", "text/plain", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "forbidden bucket")
}

func TestPingChecksBucketListing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/b/assets/o" || r.URL.Query().Get("maxResults") != "1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	client := &Client{
		httpClient:    server.Client(),
		defaultBucket: "assets",
		tokenSource:   staticTokenSource("tok"),
		apiBase:       server.URL,
	}
	require.NoError(t, client.Ping(context.Background()))

	client.defaultBucket = ""
	assert.Error(t, client.Ping(context.Background()))

	var nilClient *Client
	assert.Error(t, nilClient.Ping(context.Background()))
	assert.Error(t, nilClient.Upload(context.Background(), "b", "o", "", strings.NewReader("")))
}

func TestTokenSourceCachesUntilNearExpiry(t *testing.T) {
	var calls atomic.Int32
	ts := &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			calls.Add(1)
			return "tok", time.Now().Add(time.Hour), nil
		},
	}

	for i := 0; i < 3; i++ {
		token, err := ts.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok", token)
	}
	assert.Equal(t, int32(1), calls.Load())

	ts.expiry = time.Now().Add(30 * time.Second)
	_, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestServiceAccountTokenSourceExchangesAssertion(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pemKey := string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "urn:ietf:params:oauth:grant-type:jwt-bearer", r.Form.Get("grant_type"))
		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(r.Form.Get("assertion"), claims, func(*jwt.Token) (any, error) {
			return &key.PublicKey, nil
		}, jwt.WithValidMethods([]string{"RS256"}))
		assert.NoError(t, err)
		assert.Equal(t, "svc@example.com", claims["iss"])
		assert.Equal(t, scope, claims["scope"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"sa-token","expires_in":3600}`))
	}))
	defer server.Close()

	creds := `{"client_email":"svc@example.com","private_key":` + quoteJSON(pemKey) + `,"token_uri":"` + server.URL + `"}`
	ts, err := newServiceAccountTokenSource(server.Client(), creds)
	require.NoError(t, err)

	token, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sa-token", token)
}

func TestServiceAccountTokenSourceRejectsBadCredentials(t *testing.T) {
	_, err := newServiceAccountTokenSource(http.DefaultClient, `{"client_email":""}`)
	assert.Error(t, err)
	_, err = newServiceAccountTokenSource(http.DefaultClient, `not-json`)
	assert.Error(t, err)
}

func quoteJSON(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}
