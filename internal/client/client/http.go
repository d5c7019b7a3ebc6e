package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/pdfnotes/internal/client/models"
	"github.com/dmitrijs2005/pdfnotes/internal/common"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   string
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return readAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	return c.do(ctx, method, path, body, "application/json", out)
}

func readAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

func (c *HTTPClient) Signup(ctx context.Context, email, password, confirmation string) (*models.Auth, error) {
	var out models.Auth
	err := c.doJSON(ctx, http.MethodPost, "/signup", map[string]string{
		"email":                 email,
		"password":              password,
		"password_confirmation": confirmation,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Auth, error) {
	var out models.Auth
	err := c.doJSON(ctx, http.MethodPost, "/login", map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, "", nil)
}

func (c *HTTPClient) Folders(ctx context.Context) ([]models.Folder, error) {
	var out []models.Folder
	if err := c.do(ctx, http.MethodGet, "/folders", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateFolder(ctx context.Context, name string) (*models.Folder, error) {
	var out models.Folder
	if err := c.doJSON(ctx, http.MethodPost, "/folders", folderBody(name), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RenameFolder(ctx context.Context, id int64, name string) (*models.Folder, error) {
	var out models.Folder
	if err := c.doJSON(ctx, http.MethodPatch, folderPath(id), folderBody(name), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteFolder(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, folderPath(id), nil, "", nil)
}

func folderPath(id int64) string {
	return "/folders/" + strconv.FormatInt(id, 10)
}

func folderBody(name string) map[string]any {
	return map[string]any{"folder": map[string]string{"name": name}}
}

// Upload streams r as the pdf_file part of a multipart form.
func (c *HTTPClient) Upload(ctx context.Context, folderID int64, name, filename string, r io.Reader) (*models.Pdf, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeUploadForm(mw, folderID, name, filename, r))
	}()

	var out struct {
		Pdf models.Pdf `json:"pdf"`
	}
	err := c.do(ctx, http.MethodPost, "/pdf_handlers", pr, mw.FormDataContentType(), &out)
	_ = pr.Close()
	if err != nil {
		return nil, err
	}
	return &out.Pdf, nil
}

func writeUploadForm(mw *multipart.Writer, folderID int64, name, filename string, r io.Reader) error {
	if err := mw.WriteField("folder_id", strconv.FormatInt(folderID, 10)); err != nil {
		return err
	}
	if name != "" {
		if err := mw.WriteField("pdfname", name); err != nil {
			return err
		}
	}
	fw, err := mw.CreateFormFile("pdf_file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return err
	}
	return mw.Close()
}

type pdfList struct {
	Pdfs []models.Pdf `json:"pdfs"`
}

func (c *HTTPClient) listPdfs(ctx context.Context, path string) ([]models.Pdf, error) {
	var out pdfList
	if err := c.do(ctx, http.MethodGet, path, nil, "", &out); err != nil {
		return nil, err
	}
	return out.Pdfs, nil
}

func (c *HTTPClient) Pdfs(ctx context.Context, folderID *int64) ([]models.Pdf, error) {
	path := "/pdf_handlers"
	if folderID != nil {
		path += "?folder_id=" + strconv.FormatInt(*folderID, 10)
	}
	return c.listPdfs(ctx, path)
}

func (c *HTTPClient) Favorites(ctx context.Context) ([]models.Pdf, error) {
	return c.listPdfs(ctx, "/pdf_handlers/favorites")
}

// Recent lists recently updated PDFs. Zero days or limit leaves the
// server default in place.
func (c *HTTPClient) Recent(ctx context.Context, days, limit int) ([]models.Pdf, error) {
	q := url.Values{}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/pdf_handlers/recent"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return c.listPdfs(ctx, path)
}

func pdfPath(id int64, action string) string {
	p := "/pdf_handlers/" + strconv.FormatInt(id, 10)
	if action != "" {
		p += "/" + action
	}
	return p
}

func (c *HTTPClient) Pdf(ctx context.Context, id int64) (*models.Pdf, error) {
	var out struct {
		Pdf models.Pdf `json:"pdf"`
	}
	if err := c.do(ctx, http.MethodGet, pdfPath(id, ""), nil, "", &out); err != nil {
		return nil, err
	}
	return &out.Pdf, nil
}

func (c *HTTPClient) DeletePdf(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, pdfPath(id, ""), nil, "", nil)
}

func (c *HTTPClient) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	var out struct {
		IsFavorite bool `json:"is_favorite"`
	}
	if err := c.do(ctx, http.MethodPost, pdfPath(id, "toggle_favorite"), nil, "", &out); err != nil {
		return false, err
	}
	return out.IsFavorite, nil
}

func (c *HTTPClient) Notes(ctx context.Context, id int64) (string, error) {
	var out struct {
		Notes string `json:"notes"`
	}
	if err := c.do(ctx, http.MethodGet, pdfPath(id, "show_notes"), nil, "", &out); err != nil {
		return "", err
	}
	return out.Notes, nil
}

func (c *HTTPClient) writeNotes(ctx context.Context, method, path, notes string) (*models.Pdf, error) {
	var out struct {
		Pdf models.Pdf `json:"pdf"`
	}
	if err := c.doJSON(ctx, method, path, map[string]string{"notes": notes}, &out); err != nil {
		return nil, err
	}
	return &out.Pdf, nil
}

func (c *HTTPClient) SaveNotes(ctx context.Context, id int64, notes string) (*models.Pdf, error) {
	return c.writeNotes(ctx, http.MethodPost, pdfPath(id, "save_notes"), notes)
}

func (c *HTTPClient) UpdateNotes(ctx context.Context, id int64, notes string) (*models.Pdf, error) {
	return c.writeNotes(ctx, http.MethodPatch, pdfPath(id, "update_notes"), notes)
}

func (c *HTTPClient) Ask(ctx context.Context, id int64, question string) (string, error) {
	var out struct {
		Answer string `json:"answer"`
	}
	if err := c.doJSON(ctx, http.MethodPost, pdfPath(id, "ask"), map[string]string{"question": question}, &out); err != nil {
		return "", err
	}
	return out.Answer, nil
}

// IsUnavailable reports whether err means the server could not be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
