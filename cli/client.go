package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

// ApiClient handles requests to the restaurant dashboard API
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
	Token      string
	UseMock    bool
}

// NewApiClient creates a new API client
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("RESTODASH_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: baseURL,
		Token:   os.Getenv("RESTODASH_API_TOKEN"),
	}

	// Verify connectivity - if server is not available, use mock data
	if !client.ping() {
		fmt.Printf("Warning: API server at %s is not available. Using mock data.\n", baseURL)
		client.UseMock = true
	}

	return client
}

// ping checks if the API server is available
func (c *ApiClient) ping() bool {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Amount is a money value sent either as a JSON number or a quoted string
type Amount float64

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*a = Amount(v)
	return nil
}

// DailySales is one day of the sales overview
type DailySales struct {
	Date    string `json:"date"`
	Sales   int    `json:"sales"`
	Revenue Amount `json:"revenue"`
	Orders  int    `json:"orders"`
}

// Summary holds the headline sales metrics
type Summary struct {
	TotalOrders       int    `json:"totalOrders"`
	TotalRevenue      Amount `json:"totalRevenue"`
	AverageOrderValue Amount `json:"averageOrderValue"`
	PeakHour          string `json:"peakHour"`
}

// Overview is the sales dashboard for one range
type Overview struct {
	Range   string       `json:"range"`
	Daily   []DailySales `json:"daily"`
	Summary Summary      `json:"summary"`
	Start   string       `json:"start"`
	End     string       `json:"end"`
}

// apiError is the error body returned by the API
type apiError struct {
	Error string `json:"error"`
}

// GetSales retrieves the sales overview for a range
func (c *ApiClient) GetSales(rangeKind string) (*Overview, error) {
	if c.UseMock {
		return mockOverview(rangeKind), nil
	}

	resp, err := c.httpClient.Get(fmt.Sprintf("%s/api/v1/sales?range=%s", c.BaseURL, rangeKind))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var overview Overview
	if err := json.NewDecoder(resp.Body).Decode(&overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// ReloadSales asks the server to re-read the sales feed
func (c *ApiClient) ReloadSales() error {
	if c.UseMock {
		return nil
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/api/v1/sales/reload", nil)
	if err != nil {
		return err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkResponse(resp)
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error)
	}
	return fmt.Errorf("API error (%d)", resp.StatusCode)
}

// mockOverview returns a fixed week of sales for offline use
func mockOverview(rangeKind string) *Overview {
	days := map[string]int{"week": 7, "month": 30, "year": 365}[rangeKind]
	if days == 0 || days > 14 {
		days = 14
	}

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	overview := &Overview{Range: rangeKind, Summary: Summary{PeakHour: "14:00"}}
	for i := 0; i < days; i++ {
		day := DailySales{
			Date:    start.AddDate(0, 0, i).Format("2006-01-02"),
			Sales:   40 + (i*7)%25,
			Revenue: Amount(12000 + (i*1375)%6000),
			Orders:  18 + (i*5)%12,
		}
		overview.Daily = append(overview.Daily, day)
		overview.Summary.TotalOrders += day.Orders
		overview.Summary.TotalRevenue += day.Revenue
	}
	overview.Start = overview.Daily[0].Date
	overview.End = overview.Daily[len(overview.Daily)-1].Date
	if overview.Summary.TotalOrders > 0 {
		overview.Summary.AverageOrderValue = overview.Summary.TotalRevenue / Amount(overview.Summary.TotalOrders)
	}
	return overview
}
