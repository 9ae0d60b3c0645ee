package property

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RealtyMoleProvider is the fallback property-data provider.
type RealtyMoleProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewRealtyMoleProvider builds the fallback provider.
func NewRealtyMoleProvider(apiKey, baseURL string, timeout time.Duration) *RealtyMoleProvider {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &RealtyMoleProvider{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (p *RealtyMoleProvider) Name() string { return "realtymole" }

type realtyMoleRecord struct {
	Bedrooms      int     `json:"bedrooms"`
	Bathrooms     float64 `json:"bathrooms"`
	SquareFootage int     `json:"squareFootage"`
	LotSize       int     `json:"lotSize"`
	YearBuilt     int     `json:"yearBuilt"`
	Features      struct {
		FloorCount   int    `json:"floorCount"`
		Pool         bool   `json:"pool"`
		PoolType     string `json:"poolType"`
		Garage       bool   `json:"garage"`
		GarageSpaces int    `json:"garageSpaces"`
		Basement     bool   `json:"basement"`
	} `json:"features"`
}

// Lookup fetches the first matching record for an address.
func (p *RealtyMoleProvider) Lookup(ctx context.Context, address string) (*Data, error) {
	if p.apiKey == "" {
		return nil, errors.New("property: realtymole api key not configured")
	}

	endpoint := p.baseURL + "/properties?address=" + url.QueryEscape(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("property: build realtymole request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-RapidAPI-Key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("property: realtymole request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("property: realtymole returned status %d", resp.StatusCode)
	}

	var records []realtyMoleRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("property: decode realtymole response: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("property: realtymole found no records")
	}

	rec := records[0]
	full, half := splitBaths(rec.Bathrooms)
	return &Data{
		Provider:  p.Name(),
		Beds:      rec.Bedrooms,
		BathsFull: full,
		BathsHalf: half,
		Baths:     rec.Bathrooms,
		Sqft:      rec.SquareFootage,
		LotSize:   rec.LotSize,
		YearBuilt: rec.YearBuilt,
		Stories:   rec.Features.FloorCount,
		Basement:  rec.Features.Basement,
		Pool: Pool{
			HasPool: rec.Features.Pool,
			Type:    rec.Features.PoolType,
		},
		Parking: Parking{
			Covered:      rec.Features.Garage,
			GarageSpaces: rec.Features.GarageSpaces,
		},
	}, nil
}

// splitBaths converts a fractional bathroom count into full and half baths.
func splitBaths(total float64) (full, half int) {
	full = int(total)
	if math.Mod(total, 1) >= 0.5 {
		half = 1
	}
	return full, half
}
