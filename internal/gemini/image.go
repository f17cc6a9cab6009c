package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/logging"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/metrics"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
)

type imageInstance struct {
	Prompt string `json:"prompt"`
}

type outputOptions struct {
	MimeType string `json:"mimeType"`
}

type imageParameters struct {
	SampleCount   int           `json:"sampleCount"`
	AspectRatio   string        `json:"aspectRatio"`
	OutputOptions outputOptions `json:"outputOptions"`
}

type predictRequest struct {
	Instances  []imageInstance `json:"instances"`
	Parameters imageParameters `json:"parameters"`
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
		RaiFilteredReason  string `json:"raiFilteredReason"`
	} `json:"predictions"`
}

// ImagePrompt describes the product shot requested for one medication.
func ImagePrompt(name, form string) string {
	return fmt.Sprintf("A professional, photorealistic product image of a modern medication box for %q. "+
		"The box should be clean, professionally designed, and sitting on a neutral, brightly lit white background. "+
		"Focus on making it look like a real, high-quality product photograph.", name+" "+form)
}

// GenerateImage requests one square JPEG and returns it as a data URI.
func (c *Client) GenerateImage(ctx context.Context, name, form string) (uri string, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveAIRequest(metrics.OperationImage, start, err)
		if err == nil {
			logging.Debug("Image received", "medication", name, "duration", time.Since(start))
		}
	}()

	req := predictRequest{
		Instances: []imageInstance{{Prompt: ImagePrompt(name, form)}},
		Parameters: imageParameters{
			SampleCount:   1,
			AspectRatio:   "1:1",
			OutputOptions: outputOptions{MimeType: "image/jpeg"},
		},
	}

	body, err := c.post(ctx, metrics.OperationImage, c.imageModel, "predict", req)
	if err != nil {
		return "", err
	}

	var resp predictResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &model.ServiceError{Op: metrics.OperationImage, Message: "failed to parse response", Cause: err}
	}
	if len(resp.Predictions) == 0 || resp.Predictions[0].BytesBase64Encoded == "" {
		msg := "no image was generated"
		if len(resp.Predictions) > 0 && resp.Predictions[0].RaiFilteredReason != "" {
			msg += ": " + resp.Predictions[0].RaiFilteredReason
		}
		return "", &model.ServiceError{Op: metrics.OperationImage, Message: msg}
	}
	return model.JPEGDataURI(resp.Predictions[0].BytesBase64Encoded), nil
}
