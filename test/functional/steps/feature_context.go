package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"feinstaub-server/test/functional/driver"

	"github.com/cucumber/godog"
	"github.com/stretchr/testify/require"
)

type FeatureContext struct {
	apiDriver        *driver.APIDriver
	response         *http.Response
	responseData     map[string]any
	responseListData []map[string]any
	require          *require.Assertions
	t                godog.TestingT
}

func NewFeatureContext(baseURL string) *FeatureContext {
	return &FeatureContext{
		apiDriver: driver.NewAPIDriver(baseURL),
	}
}

func (fc *FeatureContext) RegisterSteps(ctx *godog.ScenarioContext) {
	ctx.Before(fc.beforeScenario)

	// Generic steps
	ctx.Then(`^the response status code should be (\d+)$`, fc.theResponseStatusCodeShouldBe)

	// Auth steps
	ctx.When(`^I authenticate with password "([^"]*)"$`, fc.iAuthenticateWithPassword)
	ctx.Then(`^the authentication should succeed$`, fc.theAuthenticationShouldSucceed)
	ctx.Then(`^the authentication should fail$`, fc.theAuthenticationShouldFail)
	ctx.Given(`^I hold a valid dashboard token$`, fc.iHoldAValidDashboardToken)

	// Config steps
	ctx.When(`^I request the dashboard configuration$`, fc.iRequestTheDashboardConfiguration)
	ctx.Then(`^the response should contain the dashboard title$`, fc.theResponseShouldContainTheDashboardTitle)

	// Reading steps
	ctx.When(`^I request the current reading$`, fc.iRequestTheCurrentReading)
	ctx.When(`^I request the historical readings for the last (\d+) hours$`, fc.iRequestTheHistoricalReadings)
	ctx.When(`^I request the full history$`, fc.iRequestTheFullHistory)
	ctx.Then(`^every point should carry a time field$`, fc.everyPointShouldCarryATimeField)

	// Stats steps
	ctx.When(`^I request the storage statistics$`, fc.iRequestTheStorageStatistics)
	ctx.Then(`^the response should report the number of stored readings$`, fc.theResponseShouldReportStoredReadings)

	// Health steps
	ctx.When(`^I request the health status$`, fc.iRequestTheHealthStatus)
	ctx.Then(`^the service should report status ok$`, fc.theServiceShouldReportStatusOK)
}

func (fc *FeatureContext) beforeScenario(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
	fc.t = godog.T(ctx)
	fc.require = require.New(fc.t)
	fc.response = nil
	fc.responseData = nil
	fc.responseListData = nil
	return ctx, nil
}

func lookupPassword() (string, bool) {
	return os.LookupEnv("FEINSTAUB_SERVER_DASHBOARD_PASSWORD")
}

func (fc *FeatureContext) theResponseStatusCodeShouldBe(expected int) error {
	fc.require.NotNil(fc.response, "no response captured")
	fc.require.Equal(expected, fc.response.StatusCode)
	return nil
}

func (fc *FeatureContext) iAuthenticateWithPassword(password string) error {
	response, err := fc.apiDriver.Authenticate(password)
	if err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}
	fc.response = response
	return fc.decodeObjectResponse()
}

func (fc *FeatureContext) theAuthenticationShouldSucceed() error {
	fc.require.Equal(http.StatusOK, fc.response.StatusCode)
	fc.require.Equal(true, fc.responseData["success"])
	fc.require.NotEmpty(fc.responseData["token"])
	return nil
}

func (fc *FeatureContext) theAuthenticationShouldFail() error {
	fc.require.Equal(http.StatusUnauthorized, fc.response.StatusCode)
	fc.require.Equal(false, fc.responseData["success"])
	return nil
}

func (fc *FeatureContext) iHoldAValidDashboardToken() error {
	password, ok := lookupPassword()
	if !ok {
		password = "feinstaub"
	}
	response, err := fc.apiDriver.Authenticate(password)
	if err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}
	defer response.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		return fmt.Errorf("decoding auth response: %w", err)
	}

	token, _ := body["token"].(string)
	fc.require.NotEmpty(token, "authentication did not yield a token")
	fc.apiDriver.SetToken(token)
	return nil
}

func (fc *FeatureContext) iRequestTheDashboardConfiguration() error {
	response, err := fc.apiDriver.GetConfig()
	if err != nil {
		return fmt.Errorf("requesting config: %w", err)
	}
	fc.response = response
	return fc.decodeObjectResponse()
}

func (fc *FeatureContext) theResponseShouldContainTheDashboardTitle() error {
	fc.require.NotEmpty(fc.responseData["title"])
	return nil
}

func (fc *FeatureContext) iRequestTheCurrentReading() error {
	response, err := fc.apiDriver.GetCurrent()
	if err != nil {
		return fmt.Errorf("requesting current reading: %w", err)
	}
	fc.response = response
	if response.StatusCode == http.StatusOK {
		return fc.decodeObjectResponse()
	}
	return nil
}

func (fc *FeatureContext) iRequestTheHistoricalReadings(hours int) error {
	response, err := fc.apiDriver.GetHistorical(fmt.Sprintf("%d", hours))
	if err != nil {
		return fmt.Errorf("requesting historical readings: %w", err)
	}
	fc.response = response
	return fc.decodeListResponse()
}

func (fc *FeatureContext) iRequestTheFullHistory() error {
	response, err := fc.apiDriver.GetHistorical("")
	if err != nil {
		return fmt.Errorf("requesting full history: %w", err)
	}
	fc.response = response
	return fc.decodeListResponse()
}

func (fc *FeatureContext) everyPointShouldCarryATimeField() error {
	for _, point := range fc.responseListData {
		fc.require.Contains(point, "time")
	}
	return nil
}

func (fc *FeatureContext) iRequestTheStorageStatistics() error {
	response, err := fc.apiDriver.GetStats()
	if err != nil {
		return fmt.Errorf("requesting stats: %w", err)
	}
	fc.response = response
	return fc.decodeObjectResponse()
}

func (fc *FeatureContext) theResponseShouldReportStoredReadings() error {
	fc.require.Contains(fc.responseData, "total_entries")
	fc.require.Contains(fc.responseData, "current_data_available")
	return nil
}

func (fc *FeatureContext) iRequestTheHealthStatus() error {
	response, err := fc.apiDriver.GetHealth()
	if err != nil {
		return fmt.Errorf("requesting health: %w", err)
	}
	fc.response = response
	return fc.decodeObjectResponse()
}

func (fc *FeatureContext) theServiceShouldReportStatusOK() error {
	fc.require.Equal("ok", fc.responseData["status"])
	fc.require.Contains(fc.responseData, "mqtt_connected")
	fc.require.Contains(fc.responseData, "db_connected")
	return nil
}

func (fc *FeatureContext) decodeObjectResponse() error {
	defer fc.response.Body.Close()
	body, err := io.ReadAll(fc.response.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if err := json.Unmarshal(body, &fc.responseData); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

func (fc *FeatureContext) decodeListResponse() error {
	defer fc.response.Body.Close()
	body, err := io.ReadAll(fc.response.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if err := json.Unmarshal(body, &fc.responseListData); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}
