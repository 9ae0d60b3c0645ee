package property

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// AttomProvider reads the ATTOM basic profile endpoint.
type AttomProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewAttomProvider builds the primary property-data provider.
func NewAttomProvider(apiKey, baseURL string, timeout time.Duration) *AttomProvider {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &AttomProvider{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (p *AttomProvider) Name() string { return "attom" }

type attomResponse struct {
	Property []struct {
		Lot struct {
			LotSize int `json:"lotsize2"`
		} `json:"lot"`
		Building struct {
			Rooms struct {
				Beds       int     `json:"beds"`
				BathsFull  int     `json:"bathsfull"`
				BathsHalf  int     `json:"bathshalf"`
				BathsTotal float64 `json:"bathstotal"`
			} `json:"rooms"`
			Size struct {
				UniversalSize int `json:"universalsize"`
			} `json:"size"`
			Summary struct {
				YearBuilt int     `json:"yearbuilt"`
				Levels    float64 `json:"levels"`
			} `json:"summary"`
			Interior struct {
				BsmtSize int `json:"bsmtsize"`
			} `json:"interior"`
			Parking struct {
				GarageType  string `json:"garagetype"`
				PrkgSpaces  int    `json:"prkgSpaces"`
				PrkgType    string `json:"prkgType"`
				PoolType    string `json:"poolType"`
				HasPoolFlag string `json:"poolInd"`
			} `json:"parking"`
		} `json:"building"`
	} `json:"property"`
}

// Lookup fetches the basic profile for an address.
func (p *AttomProvider) Lookup(ctx context.Context, address string) (*Data, error) {
	if p.apiKey == "" {
		return nil, errors.New("property: attom api key not configured")
	}

	endpoint := p.baseURL + "/property/basicprofile?address1=" + url.QueryEscape(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("property: build attom request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("property: attom request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("property: attom returned status %d", resp.StatusCode)
	}

	var parsed attomResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("property: decode attom response: %w", err)
	}
	if len(parsed.Property) == 0 {
		return nil, errors.New("property: attom found no records")
	}

	rec := parsed.Property[0]
	garage := strings.TrimSpace(rec.Building.Parking.GarageType)
	return &Data{
		Provider:  p.Name(),
		Beds:      rec.Building.Rooms.Beds,
		BathsFull: rec.Building.Rooms.BathsFull,
		BathsHalf: rec.Building.Rooms.BathsHalf,
		Baths:     rec.Building.Rooms.BathsTotal,
		Sqft:      rec.Building.Size.UniversalSize,
		LotSize:   rec.Lot.LotSize,
		YearBuilt: rec.Building.Summary.YearBuilt,
		Stories:   int(rec.Building.Summary.Levels),
		Basement:  rec.Building.Interior.BsmtSize > 0,
		Pool: Pool{
			HasPool: strings.EqualFold(rec.Building.Parking.HasPoolFlag, "Y"),
			Type:    rec.Building.Parking.PoolType,
		},
		Parking: Parking{
			Covered:      garage != "",
			GarageSpaces: rec.Building.Parking.PrkgSpaces,
			Carport:      strings.EqualFold(rec.Building.Parking.PrkgType, "carport"),
		},
	}, nil
}
