package driver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

type APIDriver struct {
	baseURL string
	client  *http.Client
	token   string
}

func NewAPIDriver(baseURL string) *APIDriver {
	return &APIDriver{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (d *APIDriver) Authenticate(password string) (*http.Response, error) {
	reqBody, err := json.Marshal(map[string]any{
		"password": password,
	})
	if err != nil {
		panic(err)
	}
	return d.client.Post(fmt.Sprintf("%s/api/auth", d.baseURL), "application/json", bytes.NewBuffer(reqBody))
}

// SetToken stores the bearer token used by the data endpoints.
func (d *APIDriver) SetToken(token string) {
	d.token = token
}

func (d *APIDriver) GetConfig() (*http.Response, error) {
	return d.client.Get(fmt.Sprintf("%s/api/config", d.baseURL))
}

func (d *APIDriver) GetHealth() (*http.Response, error) {
	return d.client.Get(fmt.Sprintf("%s/health", d.baseURL))
}

func (d *APIDriver) GetCurrent() (*http.Response, error) {
	return d.authorizedGet(fmt.Sprintf("%s/api/current", d.baseURL))
}

func (d *APIDriver) GetHistorical(hours string) (*http.Response, error) {
	url := fmt.Sprintf("%s/api/historical", d.baseURL)
	if hours != "" {
		url = fmt.Sprintf("%s?hours=%s", url, hours)
	}
	return d.authorizedGet(url)
}

func (d *APIDriver) GetStats() (*http.Response, error) {
	return d.authorizedGet(fmt.Sprintf("%s/api/stats", d.baseURL))
}

func (d *APIDriver) authorizedGet(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		panic(err)
	}
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}
	return d.client.Do(req)
}
