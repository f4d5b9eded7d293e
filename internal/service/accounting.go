package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"trailer-booking-backend/internal/config"
	"trailer-booking-backend/internal/domain"
	"trailer-booking-backend/internal/logger"
	"trailer-booking-backend/internal/repository"
)

const (
	qbAuthURL           = "https://appcenter.intuit.com/connect/oauth2"
	qbTokenURL          = "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer"
	qbScopeAccounting   = "com.intuit.quickbooks.accounting"
	qbSandboxAPIBase    = "https://sandbox-quickbooks.api.intuit.com"
	qbProductionAPIBase = "https://quickbooks.api.intuit.com"
)

// quickBooksService creates invoices for confirmed bookings. It is a
// fire-and-forget enrichment; nothing in the booking flow depends on it.
type quickBooksService struct {
	oauth   *oauth2.Config
	tokens  repository.AccountingTokenRepository
	apiBase string
}

// NewAccountingService builds the QuickBooks collaborator. With no client
// ID configured, the integration reports itself disabled and every call
// returns domain.ErrAccountingDisabled.
func NewAccountingService(cfg config.QuickBooksConfig, tokens repository.AccountingTokenRepository) AccountingService {
	svc := &quickBooksService{
		tokens:  tokens,
		apiBase: qbSandboxAPIBase,
	}
	if cfg.Environment == "production" {
		svc.apiBase = qbProductionAPIBase
	}
	if cfg.ClientID != "" {
		svc.oauth = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{qbScopeAccounting},
			Endpoint: oauth2.Endpoint{
				AuthURL:  qbAuthURL,
				TokenURL: qbTokenURL,
			},
		}
	}
	return svc
}

func (s *quickBooksService) Enabled() bool {
	return s.oauth != nil && s.tokens != nil
}

func (s *quickBooksService) AuthorizationURL(state string) (string, error) {
	if !s.Enabled() {
		return "", domain.ErrAccountingDisabled
	}
	return s.oauth.AuthCodeURL(state), nil
}

func (s *quickBooksService) HandleCallback(ctx context.Context, code, realmID string) error {
	if !s.Enabled() {
		return domain.ErrAccountingDisabled
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return &domain.CollaboratorError{Service: "quickbooks", Err: err}
	}

	return s.tokens.Save(ctx, &domain.AccountingToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		RealmID:      realmID,
	})
}

func (s *quickBooksService) CreateInvoice(ctx context.Context, booking *domain.BookingRequest, payment *domain.PaymentInfo) (string, error) {
	if !s.Enabled() {
		return "", domain.ErrAccountingDisabled
	}

	stored, err := s.tokens.Get(ctx)
	if err != nil {
		return "", err
	}

	// The token source refreshes expired access tokens transparently;
	// a refreshed token is written back so the next invoice reuses it.
	tokenSource := s.oauth.TokenSource(ctx, &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		Expiry:       stored.Expiry,
	})
	client := oauth2.NewClient(ctx, tokenSource)

	customerID, err := s.findOrCreateCustomer(ctx, client, stored.RealmID, booking)
	if err != nil {
		return "", err
	}

	description := fmt.Sprintf("%s\n%s to %s\nPickup: %s, Dropoff: %s\n\n%s - %s",
		booking.Trailer, booking.StartDate, booking.EndDate,
		domain.FormatHour(*booking.PickupHour), domain.FormatHour(*booking.DropoffHour),
		payment.Tier, payment.Breakdown)

	payload := map[string]any{
		"CustomerRef": map[string]any{"value": customerID},
		"Line": []map[string]any{
			{
				"DetailType":  "SalesItemLineDetail",
				"Amount":      payment.Amount,
				"Description": description,
				"SalesItemLineDetail": map[string]any{
					"Qty":       1,
					"UnitPrice": payment.Amount,
				},
			},
		},
		"CustomerMemo": map[string]any{
			"value": fmt.Sprintf("Trailer Rental: %s\nWhat you're hauling: %s", booking.Trailer, booking.Reason),
		},
	}

	var response struct {
		Invoice struct {
			ID        string `json:"Id"`
			DocNumber string `json:"DocNumber"`
		} `json:"Invoice"`
	}
	invoiceURL := fmt.Sprintf("%s/v3/company/%s/invoice", s.apiBase, stored.RealmID)
	if err := s.post(ctx, client, invoiceURL, payload, &response); err != nil {
		return "", err
	}

	if refreshed, err := tokenSource.Token(); err == nil && refreshed.AccessToken != stored.AccessToken {
		saved := *stored
		saved.AccessToken = refreshed.AccessToken
		saved.RefreshToken = refreshed.RefreshToken
		saved.Expiry = refreshed.Expiry
		if err := s.tokens.Save(ctx, &saved); err != nil {
			logger.Warn("Failed to persist refreshed accounting token", "error", err)
		}
	}

	return response.Invoice.ID, nil
}

func (s *quickBooksService) findOrCreateCustomer(ctx context.Context, client *http.Client, realmID string, booking *domain.BookingRequest) (string, error) {
	query := fmt.Sprintf("SELECT * FROM Customer WHERE PrimaryEmailAddr = '%s'", booking.Email)
	queryURL := fmt.Sprintf("%s/v3/company/%s/query?query=%s", s.apiBase, realmID, url.QueryEscape(query))

	var search struct {
		QueryResponse struct {
			Customer []struct {
				ID string `json:"Id"`
			} `json:"Customer"`
		} `json:"QueryResponse"`
	}
	if err := s.get(ctx, client, queryURL, &search); err != nil {
		return "", err
	}
	if len(search.QueryResponse.Customer) > 0 {
		return search.QueryResponse.Customer[0].ID, nil
	}

	payload := map[string]any{
		"DisplayName": fmt.Sprintf("%s %s", booking.FirstName, booking.LastName),
		"GivenName":   booking.FirstName,
		"FamilyName":  booking.LastName,
		"PrimaryEmailAddr": map[string]any{
			"Address": booking.Email,
		},
		"PrimaryPhone": map[string]any{
			"FreeFormNumber": booking.Phone,
		},
	}

	var created struct {
		Customer struct {
			ID string `json:"Id"`
		} `json:"Customer"`
	}
	customerURL := fmt.Sprintf("%s/v3/company/%s/customer", s.apiBase, realmID)
	if err := s.post(ctx, client, customerURL, payload, &created); err != nil {
		return "", err
	}
	return created.Customer.ID, nil
}

func (s *quickBooksService) get(ctx context.Context, client *http.Client, requestURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return s.do(client, req, out)
}

func (s *quickBooksService) post(ctx context.Context, client *http.Client, requestURL string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return s.do(client, req, out)
}

func (s *quickBooksService) do(client *http.Client, req *http.Request, out any) error {
	logger.ExternalServiceCall("quickbooks", req.Method, "url", req.URL.Path)
	resp, err := client.Do(req)
	logger.ExternalServiceResult("quickbooks", req.Method, err)
	if err != nil {
		return &domain.CollaboratorError{Service: "quickbooks", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.CollaboratorError{Service: "quickbooks", Err: err}
	}
	if resp.StatusCode >= 400 {
		return &domain.CollaboratorError{
			Service: "quickbooks",
			Err:     fmt.Errorf("status %d: %s", resp.StatusCode, body),
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.CollaboratorError{Service: "quickbooks", Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
