package secullum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pontohub/ponto-backend-go/internal/config"
	"github.com/pontohub/ponto-backend-go/internal/domain/vendor"
)

const bankHeader = "secullumidbancoselecionado"

// Client implements vendor.Client against the Secullum external
// integration API.
type Client struct {
	authURL    string
	apiURL     string
	username   string
	password   string
	clientID   string
	httpClient *http.Client
}

func NewClient(cfg config.SecullumConfig) *Client {
	return &Client{
		authURL:  strings.TrimRight(cfg.AuthURL, "/"),
		apiURL:   strings.TrimRight(cfg.APIURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		clientID: cfg.ClientID,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// AcquireToken implements vendor.Client.
func (c *Client) AcquireToken(ctx context.Context) (string, error) {
	return c.PasswordGrant(ctx, c.username, c.password)
}

// PasswordGrant implements vendor.Client.
func (c *Client) PasswordGrant(ctx context.Context, username, password string) (string, error) {
	form := url.Values{
		"grant_type": {"password"},
		"username":   {username},
		"password":   {password},
		"client_id":  {c.clientID},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL+"/Token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", vendor.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &vendor.AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}
	return payload.AccessToken, nil
}

// UserInfo implements vendor.Client.
func (c *Client) UserInfo(ctx context.Context, token string) (vendor.UserInfo, error) {
	var info vendor.UserInfo
	err := c.getJSON(ctx, c.authURL+"/api/Account/UserInfo", token, 0, &info)
	return info, err
}

// ListBanks implements vendor.Client.
func (c *Client) ListBanks(ctx context.Context, token string) ([]vendor.Bank, error) {
	var banks []vendor.Bank
	if err := c.getJSON(ctx, c.authURL+"/ContasSecullumExterno/ListarBancos", token, 0, &banks); err != nil {
		return nil, err
	}
	return banks, nil
}

// ListEmployees implements vendor.Client. Terminated employees are
// filtered out; access failures come back as a denied result, never an
// empty success.
func (c *Client) ListEmployees(ctx context.Context, token string, bankID int) vendor.ListResult[vendor.Employee] {
	var all []vendor.Employee
	if err := c.getJSON(ctx, c.apiURL+"/IntegracaoExterna/Funcionarios", token, bankID, &all); err != nil {
		return vendor.Denied[vendor.Employee](err)
	}

	active := make([]vendor.Employee, 0, len(all))
	for _, emp := range all {
		if !emp.Active() {
			continue
		}
		emp.BankID = bankID
		active = append(active, emp)
	}
	return vendor.Ok(active)
}

// ListDepartments implements vendor.Client.
func (c *Client) ListDepartments(ctx context.Context, token string, bankID int) vendor.ListResult[vendor.Department] {
	var deps []vendor.Department
	if err := c.getJSON(ctx, c.apiURL+"/IntegracaoExterna/Departamentos", token, bankID, &deps); err != nil {
		return vendor.Denied[vendor.Department](err)
	}
	for i := range deps {
		deps[i].BankID = bankID
	}
	return vendor.Ok(deps)
}

// ListClockEvents implements vendor.Client.
func (c *Client) ListClockEvents(ctx context.Context, token string, bankID int, cpf, dateStart, dateEnd string) vendor.ListResult[vendor.ClockEvent] {
	start, err := FormatAPIDate(dateStart)
	if err != nil {
		return vendor.Denied[vendor.ClockEvent](err)
	}
	end, err := FormatAPIDate(dateEnd)
	if err != nil {
		return vendor.Denied[vendor.ClockEvent](err)
	}

	endpoint := fmt.Sprintf("%s/IntegracaoExterna/Batidas?dataInicio=%s&dataFim=%s&funcionarioCpf=%s",
		c.apiURL, url.QueryEscape(start), url.QueryEscape(end), url.QueryEscape(cpf))

	var events []vendor.ClockEvent
	if err := c.getJSON(ctx, endpoint, token, bankID, &events); err != nil {
		return vendor.Denied[vendor.ClockEvent](err)
	}
	return vendor.Ok(events)
}

// ListEquipment implements vendor.Client.
func (c *Client) ListEquipment(ctx context.Context, token string, bankID int) ([]vendor.Equipment, error) {
	var equipment []vendor.Equipment
	if err := c.getJSON(ctx, c.apiURL+"/IntegracaoExterna/Equipamentos", token, bankID, &equipment); err != nil {
		return nil, err
	}
	return equipment, nil
}

// EquipmentEvents implements vendor.Client.
func (c *Client) EquipmentEvents(ctx context.Context, token string, bankID, equipmentID int, dateStart, dateEnd string) vendor.ListResult[vendor.ClockEvent] {
	start, err := FormatAPIDate(dateStart)
	if err != nil {
		return vendor.Denied[vendor.ClockEvent](err)
	}
	end, err := FormatAPIDate(dateEnd)
	if err != nil {
		return vendor.Denied[vendor.ClockEvent](err)
	}

	endpoint := fmt.Sprintf("%s/IntegracaoExterna/FonteDados?equipamentoId=%d&dataInicio=%s&dataFim=%s",
		c.apiURL, equipmentID, url.QueryEscape(start), url.QueryEscape(end))

	var events []vendor.ClockEvent
	if err := c.getJSON(ctx, endpoint, token, bankID, &events); err != nil {
		return vendor.Denied[vendor.ClockEvent](err)
	}
	return vendor.Ok(events)
}

func (c *Client) getJSON(ctx context.Context, endpoint, token string, bankID int, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if bankID != 0 {
		req.Header.Set(bankHeader, strconv.Itoa(bankID))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", vendor.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &vendor.AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Debug("vendor call failed", "endpoint", endpoint, "status", resp.StatusCode)
		return fmt.Errorf("%w: HTTP %d", vendor.ErrUnavailable, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// FormatAPIDate converts a date in ISO (YYYY-MM-DD) or slash (DD/MM/YYYY)
// format to the DD/MM/YYYY form the vendor expects. Timestamps have their
// time component dropped first.
func FormatAPIDate(date string) (string, error) {
	if date == "" {
		return "", vendor.ErrInvalidDate
	}
	if idx := strings.Index(date, "T"); idx > 0 {
		date = date[:idx]
	}
	if strings.Contains(date, "/") {
		if _, err := time.Parse("02/01/2006", date); err != nil {
			return "", vendor.ErrInvalidDate
		}
		return date, nil
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", vendor.ErrInvalidDate
	}
	return t.Format("02/01/2006"), nil
}
