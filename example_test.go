package delos_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	delos "github.com/instantcocoa/delos-go"
)

func Example() {
	client, err := delos.New(
		delos.WithHost("delos.internal"),
		delos.WithAPIKey("sk-delos-dev"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	prompts, err := client.Prompts()
	if err != nil {
		log.Fatal(err)
	}

	prompt, err := prompts.Get(context.Background(), "support-classifier")
	if err != nil {
		log.Fatal(err)
	}
	if prompt == nil {
		fmt.Println("no such prompt")
		return
	}
	fmt.Printf("%s is at v%d\n", prompt.Name, prompt.CurrentVersion)
}

func ExampleNewFromEnv() {
	// Reads DELOS_HOST, DELOS_API_KEY, DELOS_TIMEOUT, and the per-service
	// DELOS_<SERVICE>_HOST/_PORT overrides.
	client, err := delos.NewFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()
}

func ExampleRuntimeClient_Complete() {
	client, err := delos.New()
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	runtime, err := client.Runtime()
	if err != nil {
		log.Fatal(err)
	}

	resp, err := runtime.Complete(context.Background(), delos.CompletionParams{
		Model: "sonnet-large",
		Messages: []delos.Message{
			{Role: "user", Content: "Summarize the incident report."},
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(resp.Content)
}

func ExampleRuntimeClient_CompleteStream() {
	client, err := delos.New()
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	runtime, err := client.Runtime()
	if err != nil {
		log.Fatal(err)
	}

	stream, err := runtime.CompleteStream(context.Background(), delos.CompletionParams{
		Model: "sonnet-large",
		Messages: []delos.Message{
			{Role: "user", Content: "Write a haiku about deadlines."},
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	defer stream.Close()

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(chunk)
	}
}

func ExampleObserveClient_IngestSpans() {
	client, err := delos.New()
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	observe, err := client.Observe()
	if err != nil {
		log.Fatal(err)
	}

	started := time.Now().Add(-120 * time.Millisecond)
	accepted, err := observe.IngestSpans(context.Background(), []delos.Span{
		{
			TraceID:     delos.NewTraceID(),
			SpanID:      delos.NewSpanID(),
			Name:        "classify-ticket",
			Kind:        delos.SpanKindClient,
			StartTime:   started,
			EndTime:     delos.TimePtr(time.Now()),
			ServiceName: "support-bot",
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("accepted %d spans\n", accepted)
}

func ExampleClient_HealthCheck() {
	client, err := delos.New()
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for service, ready := range client.HealthCheck(ctx) {
		fmt.Printf("%s ready=%v\n", service, ready)
	}
}

func ExamplePrompt_Render() {
	prompt := &delos.Prompt{
		Name:           "greeter",
		CurrentVersion: 1,
		Versions: []delos.PromptVersion{
			{Version: 1, Template: "Hello {{name}}, welcome to {{team}}."},
		},
	}

	text, err := prompt.Render(map[string]string{
		"name": "Ada",
		"team": "platform",
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(text)
	// Output: Hello Ada, welcome to platform.
}

func ExampleIsNotFound() {
	client, err := delos.New()
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	datasets, err := client.Datasets()
	if err != nil {
		log.Fatal(err)
	}

	_, _, err = datasets.AddExamples(context.Background(), "ds-missing", []delos.ExampleInput{
		{Input: delos.JSONObject{"question": "What is Go?"}},
	})
	if delos.IsNotFound(err) {
		fmt.Println("dataset does not exist")
	}
}
