// Package analysis talks to the external PDF question-answering service.
//
// The service exposes two endpoints:
//
//	POST /upload  multipart form: pdf_file, pdf_id      -> indexes a document
//	POST /ask     JSON {"pdf_id", "question"}           -> {"question", "answer"}
//
// Errors come back as {"error": "..."} with a non-2xx status.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dmitrijs2005/pdfnotes/internal/common"
)

// maxErrorBody caps how much of an upstream error response is read.
const maxErrorBody = 4 << 10

type Client struct {
	baseURL    string
	httpClient *http.Client
	// indexRetries is the number of retries after the first Index attempt.
	indexRetries uint64
}

// New returns a client for the service at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
		indexRetries: 2,
	}
}

type askRequest struct {
	PdfID    string `json:"pdf_id"`
	Question string `json:"question"`
}

type askResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Ask sends a question about an indexed document and returns the answer.
// Transport failures and non-2xx replies wrap common.ErrAnalysisUnavailable.
func (c *Client) Ask(ctx context.Context, pdfID int64, question string) (string, error) {
	body, err := json.Marshal(askRequest{PdfID: strconv.FormatInt(pdfID, 10), Question: question})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrAnalysisUnavailable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var out askResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode answer: %v", common.ErrAnalysisUnavailable, err)
	}
	return out.Answer, nil
}

// Index uploads a document so later questions can refer to it. Transport
// errors and 5xx replies are retried with exponential backoff; 4xx replies
// are not.
func (c *Client) Index(ctx context.Context, pdfID int64, filename string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	op := func() error {
		return c.index(ctx, pdfID, filename, data)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.indexRetries), ctx)
	return backoff.Retry(op, b)
}

func (c *Client) index(ctx context.Context, pdfID int64, filename string, data []byte) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("pdf_id", strconv.FormatInt(pdfID, 10)); err != nil {
		return backoff.Permanent(err)
	}
	fw, err := mw.CreateFormFile("pdf_file", filename)
	if err != nil {
		return backoff.Permanent(err)
	}
	if _, err := fw.Write(data); err != nil {
		return backoff.Permanent(err)
	}
	if err := mw.Close(); err != nil {
		return backoff.Permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrAnalysisUnavailable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		if resp.StatusCode < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(raw))
	var e errorResponse
	if json.Unmarshal(raw, &e) == nil && e.Error != "" {
		msg = e.Error
	}
	return fmt.Errorf("%w: status %d: %s", common.ErrAnalysisUnavailable, resp.StatusCode, msg)
}
