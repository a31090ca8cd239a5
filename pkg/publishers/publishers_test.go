package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestValidatePublisherConfigRejectsMissingHTTP(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:   "h1",
		Type: TypeHTTP,
	})
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}

func TestLoadRegistryAllTypesJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.json")
	raw := `{"publishers":[
  {"id":"q","type":"SQS","sqs":{"uri":" https://sqs.local/q ","region":"eu-west-1"}},
  {"id":"t","type":"sns","sns":{"topic_arn":"arn:aws:sns:eu-west-1:1:t","region":"eu-west-1"}},
  {"id":"g","type":"gcp_pubsub","gcp_pubsub":{"project_id":"proj","topic":"relay"}},
  {"id":"h","type":"http","http":{"url":"https://example.com","method":"put"}}
]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 4 {
		t.Fatalf("expected 4 publishers, got %d", len(reg.All()))
	}
	q, ok := reg.ByID("q")
	if !ok || q.Type != TypeSQS || q.SQS.QueueURL != "https://sqs.local/q" {
		t.Fatalf("sqs entry not normalized: %#v", q)
	}
	h, _ := reg.ByID("h")
	if h.HTTP.Method != "PUT" || h.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("http defaults not applied: %#v", h.HTTP)
	}
}

func TestLoadRegistryRejectsDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: a
    type: http
    http: {url: "https://a"}
  - id: a
    type: http
    http: {url: "https://b"}
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidatePublisherConfigCloudTargets(t *testing.T) {
	cases := []PublisherConfig{
		{ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "eu-west-1"}},
		{ID: "g", Type: TypeGCPPubSub, GCP: &GCPPubSubConfig{Topic: "relay"}},
		{ID: "k", Type: "kafka"},
	}
	for _, cfg := range cases {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Fatalf("expected validation error for %#v", cfg)
		}
	}
}

func TestLoadRegistryExpandsEnvironment(t *testing.T) {
	t.Setenv("WEBHOOK_TOKEN", "s3cret")
	t.Setenv("WEBHOOK_URL", "https://hooks.example.com/wfm")
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: hook
    type: http
    http:
      url: ${WEBHOOK_URL}
      headers:
        Authorization: Bearer ${WEBHOOK_TOKEN}
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	hook, _ := reg.ByID("hook")
	if hook.HTTP.URL != "https://hooks.example.com/wfm" || hook.HTTP.Headers["Authorization"] != "Bearer s3cret" {
		t.Fatalf("env not expanded: %#v", hook.HTTP)
	}
}
