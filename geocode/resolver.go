package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"goflare.io/discounts/config"
	"goflare.io/discounts/models"
)

// countyComponentType is the reverse-geocoding component carrying the
// county name.
const countyComponentType = "administrative_area_level_2"

// Resolver resolves a shop's county by reverse-geocoding its coordinates.
// Resolution is total: missing coordinates, transport failures and
// ambiguous responses all come back as not resolved, never as an error.
type Resolver struct {
	client   *retryablehttp.Client
	endpoint string
	apiKey   string
	logger   *zap.Logger
}

func NewResolver(appConfig *config.Config, logger *zap.Logger) *Resolver {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.HTTPClient.Timeout = 10 * time.Second
	client.Logger = nil

	return &Resolver{
		client:   client,
		endpoint: appConfig.Geocoding.Endpoint,
		apiKey:   appConfig.Geocoding.APIKey,
		logger:   logger,
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Types             []string `json:"types"`
		AddressComponents []struct {
			LongName string `json:"long_name"`
		} `json:"address_components"`
	} `json:"results"`
}

func (r *Resolver) ResolveCounty(ctx context.Context, settings *models.ShopLocationSettings) (string, bool) {
	if settings == nil || settings.Latitude == nil || settings.Longitude == nil {
		return "", false
	}

	requestURL := fmt.Sprintf("%s?latlng=%s&key=%s",
		r.endpoint,
		url.QueryEscape(fmt.Sprintf("%f,%f", *settings.Latitude, *settings.Longitude)),
		url.QueryEscape(r.apiKey))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		r.logger.Warn("failed to build geocoding request", zap.Error(err))
		return "", false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("geocoding request failed", zap.Error(err))
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("geocoding request returned non-OK status", zap.Int("status", resp.StatusCode))
		return "", false
	}

	var decoded geocodeResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		r.logger.Warn("failed to decode geocoding response", zap.Error(err))
		return "", false
	}

	if decoded.Status != "OK" {
		r.logger.Warn("geocoding response not OK", zap.String("status", decoded.Status))
		return "", false
	}

	for _, result := range decoded.Results {
		if !contains(result.Types, countyComponentType) {
			continue
		}
		if len(result.AddressComponents) == 0 {
			break
		}
		return result.AddressComponents[0].LongName, true
	}

	return "", false
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
