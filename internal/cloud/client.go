// Package cloud talks to the companion backup service: OTP login and
// uploading exported vCard files to the signed-in account.
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gabriel-vasile/mimetype"
)

// requestTimeout bounds every call to the backup service. The service
// sits on slow links often enough that the default no-timeout client is
// not an option.
const requestTimeout = 12 * time.Second

// Client is a thin HTTP client for the backup service API.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *slog.Logger
}

// NewClient builds a Client for the service at baseURL.
func NewClient(baseURL string, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: requestTimeout},
		log:     log,
	}
}

type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// decodeError turns a non-2xx response into an error, preferring the
// service's own message when the body carries one.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload apiError
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return errors.Newf("%s (status %d)", payload.Message, resp.StatusCode)
		}
		if payload.Error != "" {
			return errors.Newf("%s (status %d)", payload.Error, resp.StatusCode)
		}
	}
	return errors.Newf("request failed with status %d", resp.StatusCode)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encoding request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.Wrapf(err, "calling %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decoding %s response", path)
	}
	return nil
}

// LoginRequest asks the service to send an OTP to mobile.
func (c *Client) LoginRequest(ctx context.Context, mobile string) error {
	if strings.TrimSpace(mobile) == "" {
		return errors.New("mobile number is required")
	}
	err := c.postJSON(ctx, "/auth/login-request", map[string]string{"mobileNumber": mobile}, nil)
	if err != nil {
		return err
	}
	c.log.Info("login otp requested", "mobile", mobile)
	return nil
}

// VerifyOTP exchanges an OTP for a session.
func (c *Client) VerifyOTP(ctx context.Context, mobile, otp string) (*Session, error) {
	if strings.TrimSpace(otp) == "" {
		return nil, errors.New("otp is required")
	}

	var session Session
	payload := map[string]string{"mobileNumber": mobile, "otp": otp}
	if err := c.postJSON(ctx, "/auth/verify-otp", payload, &session); err != nil {
		return nil, err
	}
	if err := session.Validate(); err != nil {
		return nil, errors.Wrap(err, "service returned a malformed session")
	}
	return &session, nil
}

// UploadVCF sends an exported vCard file to the signed-in account. The
// content type is sniffed from the file rather than trusted from its
// extension.
func (c *Client) UploadVCF(ctx context.Context, token, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading vcf file")
	}

	contentType := "text/vcard"
	if mt := mimetype.Detect(data); mt != nil {
		contentType = mt.String()
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filepath.Base(path)+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return errors.Wrap(err, "building upload")
	}
	if _, err := part.Write(data); err != nil {
		return errors.Wrap(err, "building upload")
	}
	if err := mw.Close(); err != nil {
		return errors.Wrap(err, "building upload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/backups/upload", &buf)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.Wrap(err, "uploading vcf")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	c.log.Info("vcf uploaded", "file", filepath.Base(path), "contentType", contentType)
	return nil
}
