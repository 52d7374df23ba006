package functest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AppBaseURL points at a running server, e.g. http://localhost:8080.
var AppBaseURL *url.URL

func TestMain(m *testing.M) {
	raw := os.Getenv("RECIPEBOX_FUNCTIONAL_URL")
	if raw == "" {
		fmt.Println("RECIPEBOX_FUNCTIONAL_URL not set, skipping functional tests")
		os.Exit(0)
	}
	u, err := url.Parse(raw)
	if err != nil {
		fmt.Printf("invalid RECIPEBOX_FUNCTIONAL_URL: %v\n", err)
		os.Exit(1)
	}
	AppBaseURL = u
	os.Exit(m.Run())
}

func endpoint(path string) string {
	u := *AppBaseURL
	u.Path = "/api/v1" + path
	return u.String()
}

type tokenResp struct {
	Token string `json:"token"`
}

type recipeResp struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Price string `json:"price"`
	Tags  []struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	} `json:"tags"`
}

// signUp registers a fresh user and returns a client carrying its token.
func signUp(t *testing.T, ctx context.Context) *resty.Client {
	t.Helper()
	email := fmt.Sprintf("functional-%s@example.com", uuid.NewString())
	creds := map[string]string{"email": email, "password": "password123", "name": "Functional"}

	resp, err := resty.New().R().SetContext(ctx).SetBody(creds).Post(endpoint("/user/create"))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())

	resp, err = resty.New().R().
		SetContext(ctx).
		SetBody(creds).
		SetResult(&tokenResp{}).
		Post(endpoint("/user/token"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	return resty.New().SetAuthToken(resp.Result().(*tokenResp).Token)
}

func TestRecipeLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	client := signUp(t, ctx)
	t.Cleanup(func() {
		_, _ = client.R().Delete(endpoint("/user/me"))
	})

	payload := `{"title":"Soup","time_minutes":30,"price":"10.50","tags":[{"name":"Tag1"},{"name":"Tag2"}]}`

	resp, err := client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		SetResult(&recipeResp{}).
		Post(endpoint("/recipes/"))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())

	created := resp.Result().(*recipeResp)
	assert.Equal(t, "10.50", created.Price)
	assert.Len(t, created.Tags, 2)

	resp, err = client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(endpoint("/recipes/"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())

	resp, err = client.R().
		SetContext(ctx).
		SetResult(&[]recipeResp{}).
		Get(endpoint("/recipes/"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Len(t, *resp.Result().(*[]recipeResp), 1)
}

func TestUnauthenticated(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	resp, err := resty.New().R().SetContext(ctx).Get(endpoint("/tags/"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
}
