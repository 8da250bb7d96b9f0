// Command raterctl is a terminal client for the rating API. It collects the
// same four inputs as the desktop form (model, task type, question, response),
// submits them, and renders the rubric scores and feedback.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ielts-tools/rater-api/internal/dto"
)

func main() {
	addr := flag.String("addr", "http://localhost:8000", "base URL of the rating API")
	model := flag.String("model", "chatgpt", "model backend: chatgpt or llama3.2")
	taskType := flag.String("task", "task1", "writing task type: task1 or task2")
	question := flag.String("question", "", "task question text (or use -question-file)")
	questionFile := flag.String("question-file", "", "file containing the task question")
	responseFile := flag.String("response-file", "", "file containing the response; defaults to stdin")
	debug := flag.Bool("debug", false, "request the diagnostic trace")
	timeout := flag.Duration("timeout", 3*time.Minute, "overall request deadline")
	flag.Parse()

	questionText, err := readInput(*question, *questionFile, nil)
	if err != nil {
		fatalf("read question: %v", err)
	}
	responseText, err := readInput("", *responseFile, os.Stdin)
	if err != nil {
		fatalf("read response: %v", err)
	}
	if questionText == "" || responseText == "" {
		fatalf("both question and response must be provided")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	// The request runs off the main goroutine so Ctrl-C cancels a slow
	// upstream call instead of hanging the client.
	type outcome struct {
		rating dto.RatingResponse
		err    error
	}
	results := make(chan outcome, 1)
	go func() {
		rating, err := submit(ctx, *addr, dto.WritingSubmissionRequest{
			TaskType: dto.TaskType(*taskType),
			Question: questionText,
			Response: responseText,
			Model:    *model,
		}, *debug)
		results <- outcome{rating: rating, err: err}
	}()

	select {
	case <-ctx.Done():
		fatalf("request aborted: %v", ctx.Err())
	case result := <-results:
		if result.err != nil {
			fatalf("%v", result.err)
		}
		render(os.Stdout, result.rating)
	}
}

func submit(ctx context.Context, addr string, req dto.WritingSubmissionRequest, debug bool) (dto.RatingResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return dto.RatingResponse{}, err
	}

	url := strings.TrimRight(addr, "/") + "/api/v1/ratings"
	if debug {
		url += "?debug_mode=true"
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return dto.RatingResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return dto.RatingResponse{}, fmt.Errorf("cannot reach rating service: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return dto.RatingResponse{}, err
	}

	var envelope struct {
		Success bool               `json:"success"`
		Message string             `json:"message"`
		Data    dto.RatingResponse `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return dto.RatingResponse{}, fmt.Errorf("unexpected reply (%d): %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	if !envelope.Success {
		return dto.RatingResponse{}, fmt.Errorf("rating failed: %s", envelope.Message)
	}

	return envelope.Data, nil
}

func render(w io.Writer, response dto.RatingResponse) {
	rating := response.Rating
	fmt.Fprintf(w, "Overall Score: %.1f\n\n", rating.OverallScore)
	fmt.Fprintf(w, "Feedback: %s\n\n", rating.OverallFeedback)

	for _, entry := range []struct {
		name      string
		criterion dto.Criterion
	}{
		{"Task Achievement", rating.TaskAchievement},
		{"Coherence Cohesion", rating.CoherenceCohesion},
		{"Lexical Resource", rating.LexicalResource},
		{"Grammatical Range", rating.GrammaticalRange},
	} {
		fmt.Fprintf(w, "%s:\n", entry.name)
		fmt.Fprintf(w, "- Score: %.1f\n", entry.criterion.Score)
		fmt.Fprintf(w, "- Feedback: %s\n\n", entry.criterion.Feedback)
	}

	if len(response.DebugInfo) > 0 {
		fmt.Fprintln(w, "Debug:")
		for key, value := range response.DebugInfo {
			fmt.Fprintf(w, "- %s: %s\n", key, value)
		}
	}
}

func readInput(literal, path string, fallback io.Reader) (string, error) {
	if literal != "" {
		return strings.TrimSpace(literal), nil
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}
	if fallback != nil {
		data, err := io.ReadAll(fallback)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}
	return "", nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
