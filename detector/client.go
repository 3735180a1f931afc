package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Client runs inference through an external model service. The service
// takes a multipart-encoded image and answers with the detected objects;
// the annotated copy is rendered locally from the returned boxes.
type Client struct {
	inferenceURL string
	httpc        *http.Client
	log          *logrus.Logger
}

// NewClient builds a detection client for the given inference endpoint.
func NewClient(inferenceURL string, log *logrus.Logger) *Client {
	return &Client{
		inferenceURL: inferenceURL,
		httpc:        &http.Client{Timeout: 2 * time.Minute},
		log:          log,
	}
}

// Detect sends the image to the inference service and draws the returned
// bounding boxes onto a copy of it. Labels keep the order the service
// returned them in.
func (c *Client) Detect(ctx context.Context, img []byte) ([]byte, []string, error) {
	detections, err := c.predict(ctx, img)
	if err != nil {
		return nil, nil, err
	}

	annotated, err := Annotate(img, detections)
	if err != nil {
		return nil, nil, err
	}

	labels := make([]string, 0, len(detections))
	for _, d := range detections {
		labels = append(labels, d.Label)
	}
	return annotated, labels, nil
}

func (c *Client) predict(ctx context.Context, img []byte) ([]Detection, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "image")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(img)); err != nil {
		return nil, fmt.Errorf("copy image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.inferenceURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Detections []Detection `json:"detections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.log.WithField("count", len(result.Detections)).Debug("inference completed")
	return result.Detections, nil
}

// CheckHealth probes the inference service's health endpoint.
func (c *Client) CheckHealth(ctx context.Context) error {
	url := strings.TrimSuffix(c.inferenceURL, "/predict") + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service unhealthy: %d", resp.StatusCode)
	}
	return nil
}
