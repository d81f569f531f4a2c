package adapter_test

import (
	"context"
	"encoding/base64"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/seefood/pkg/adapter"
	"google.golang.org/genai"
)

func TestGenerateContent(t *testing.T) {
	projectID := os.Getenv("TEST_GEMINI_PROJECT")
	if projectID == "" {
		t.Skip("TEST_GEMINI_PROJECT is not set")
	}

	ctx := context.Background()
	client, err := adapter.NewGemini(ctx, projectID, "us-central1")
	gt.NoError(t, err)

	contents := []*genai.Content{
		genai.NewContentFromText("Name three edible species of crab.", genai.RoleUser),
	}

	resp, err := client.GenerateContent(ctx, contents, nil)
	if err != nil {
		t.Fatal("failed to call GenerateContent", err)
	}
	if resp.Text() == "" {
		t.Fatal("unexpected empty response")
	}

	t.Log("response:", resp.Text())
}

func TestGeminiRecognizerLive(t *testing.T) {
	projectID := os.Getenv("TEST_GEMINI_PROJECT")
	imagePath := os.Getenv("TEST_SEAFOOD_IMAGE")
	if projectID == "" || imagePath == "" {
		t.Skip("TEST_GEMINI_PROJECT or TEST_SEAFOOD_IMAGE is not set")
	}

	ctx := context.Background()
	client, err := adapter.NewGemini(ctx, projectID, "us-central1")
	gt.NoError(t, err)
	r, err := adapter.NewGeminiRecognizer(client)
	gt.NoError(t, err)

	data, err := os.ReadFile(imagePath)
	gt.NoError(t, err)

	result, err := r.Recognize(ctx, base64.StdEncoding.EncodeToString(data))
	gt.NoError(t, err)
	t.Log("identified:", result.PrimaryName())
}
