package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ayursutra/wellness-portal/internal/application/services"
	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/providers"
	apperrors "github.com/ayursutra/wellness-portal/pkg/errors"
)

const defaultClientTimeout = 10 * time.Second

// ServerCapability is the search capability advertised by the Booking API
type ServerCapability struct {
	providers.Capability
	DefaultCenter  entities.LatLng `json:"defaultCenter"`
	DefaultKeyword string          `json:"defaultKeyword"`
}

type errorBody struct {
	Error  string              `json:"error"`
	Code   apperrors.ErrorType `json:"code"`
	Fields []string            `json:"fields"`
}

// APIClient talks to the Booking API over HTTP
type APIClient struct {
	client *resty.Client
}

// NewAPIClient creates a client for the API at baseURL. httpClient may be nil.
func NewAPIClient(baseURL string, timeout time.Duration, httpClient *http.Client) *APIClient {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	var client *resty.Client
	if httpClient != nil {
		client = resty.NewWithClient(httpClient)
	} else {
		client = resty.New()
	}
	client.SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &APIClient{client: client}
}

// GetPatient fetches the signed-in patient
func (c *APIClient) GetPatient(ctx context.Context) (*entities.Patient, error) {
	var patient entities.Patient
	if err := c.get(ctx, "/api/patient", nil, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

// ListAppointments fetches all appointments, newest slot first
func (c *APIClient) ListAppointments(ctx context.Context) ([]*entities.Appointment, error) {
	var appointments []*entities.Appointment
	if err := c.get(ctx, "/api/appointments", nil, &appointments); err != nil {
		return nil, err
	}
	if appointments == nil {
		appointments = []*entities.Appointment{}
	}
	return appointments, nil
}

// BookAppointment creates an appointment
func (c *APIClient) BookAppointment(ctx context.Context, req services.BookingRequest) (*entities.Appointment, error) {
	var appointment entities.Appointment
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/appointments")
	if err != nil {
		return nil, apperrors.NewNetworkError("create appointment request failed", err)
	}
	if err := decode(resp, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// SearchCentres runs a keyword search on the server
func (c *APIClient) SearchCentres(ctx context.Context, keyword string, bias *entities.Bounds) (services.CentreSearchResult, error) {
	params := map[string]string{"keyword": keyword}
	if bias != nil {
		params["sw"] = bias.SouthWest.URLValue()
		params["ne"] = bias.NorthEast.URLValue()
	}
	return c.search(ctx, "/api/centres/search", params)
}

// SearchNearby runs a nearby search on the server; a nil at uses the server's position
func (c *APIClient) SearchNearby(ctx context.Context, at *entities.LatLng) (services.CentreSearchResult, error) {
	params := map[string]string{}
	if at != nil {
		params["lat"] = strconv.FormatFloat(at.Lat, 'f', -1, 64)
		params["lng"] = strconv.FormatFloat(at.Lng, 'f', -1, 64)
	}
	return c.search(ctx, "/api/centres/nearby", params)
}

// Capability fetches the server's search capability
func (c *APIClient) Capability(ctx context.Context) (ServerCapability, error) {
	var capability ServerCapability
	err := c.get(ctx, "/api/centres/capability", nil, &capability)
	return capability, err
}

// CurrentLocation asks the server to resolve its position
func (c *APIClient) CurrentLocation(ctx context.Context) (entities.LatLng, error) {
	var pos entities.LatLng
	err := c.get(ctx, "/api/location", nil, &pos)
	return pos, err
}

func (c *APIClient) search(ctx context.Context, path string, params map[string]string) (services.CentreSearchResult, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return services.CentreSearchResult{}, apperrors.NewNetworkError("centre search request failed", err)
	}

	var result services.CentreSearchResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		if !resp.IsSuccess() {
			return services.CentreSearchResult{}, responseError(resp)
		}
		return services.CentreSearchResult{}, apperrors.NewNetworkError("invalid centre search response", err)
	}
	if result.Centres == nil {
		result.Centres = []entities.Centre{}
	}
	if result.Status == providers.SearchStatusFailed {
		code := result.Code
		if code == "" {
			code = apperrors.ErrorTypeProviderUnavailable
		}
		result.Err = &apperrors.AppError{Type: code, Message: result.Error}
	}
	return result, nil
}

func (c *APIClient) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return apperrors.NewNetworkError(fmt.Sprintf("GET %s failed", path), err)
	}
	return decode(resp, out)
}

func decode(resp *resty.Response, out interface{}) error {
	if !resp.IsSuccess() {
		return responseError(resp)
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return apperrors.NewNetworkError("invalid response body", err)
	}
	return nil
}

// responseError turns a non-2xx response into an AppError carrying the server's code
func responseError(resp *resty.Response) error {
	var body errorBody
	_ = json.Unmarshal(resp.Body(), &body)

	appErr := &apperrors.AppError{Type: body.Code, Message: body.Error, Fields: body.Fields}
	if appErr.Type == "" {
		switch {
		case resp.StatusCode() == http.StatusNotFound:
			appErr.Type = apperrors.ErrorTypeNotFound
		case resp.StatusCode() < http.StatusInternalServerError:
			appErr.Type = apperrors.ErrorTypeValidation
		default:
			appErr.Type = apperrors.ErrorTypeExternal
		}
	}
	if appErr.Message == "" {
		appErr.Message = fmt.Sprintf("server returned %s", resp.Status())
	}
	return appErr
}
