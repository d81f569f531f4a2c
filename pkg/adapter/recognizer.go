package adapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/model"
	"google.golang.org/genai"
)

const recognizePrompt = `Identify the seafood in the image.
Return the common name of the species, a short description of its nutrition and flavor, up to three recipes with short cooking instructions, and the ingredients those recipes need with a typical price in USD.
Leave seafoodPO null if the image shows no seafood.`

// GeminiRecognizer identifies seafood with a Gemini model instead of the
// SeeFood API. The answer is constrained to the RecognitionResult shape.
type GeminiRecognizer struct {
	gemini Gemini
	schema *genai.Schema
}

func NewGeminiRecognizer(gemini Gemini) (*GeminiRecognizer, error) {
	js, err := jsonschema.For[model.RecognitionResult](nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build recognition schema")
	}
	schema, err := convertJSONSchemaToGenai(js)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to convert recognition schema")
	}

	return &GeminiRecognizer{
		gemini: gemini,
		schema: schema,
	}, nil
}

func (r *GeminiRecognizer) Recognize(ctx context.Context, base64Image string) (*model.RecognitionResult, error) {
	data, err := base64.StdEncoding.DecodeString(base64Image)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode image")
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, goerr.New("input is not an image", goerr.V("mime", mimeType))
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mimeType),
			genai.NewPartFromText(recognizePrompt),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   r.schema,
	}

	resp, err := r.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to recognize image")
	}

	text := resp.Text()
	if text == "" {
		return nil, goerr.Wrap(model.ErrNoSeafoodIdentified, "empty response from model")
	}

	var result model.RecognitionResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, goerr.Wrap(err, "failed to decode model response", goerr.V("text", text))
	}
	if result.Seafood == nil {
		return nil, goerr.Wrap(model.ErrNoSeafoodIdentified, "model found no seafood in the image")
	}

	return &result, nil
}
