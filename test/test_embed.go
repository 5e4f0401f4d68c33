package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Manual smoke test for the embed flow. Run against a local server that has
// been migrated and seeded.
func main() {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}

	// Log in as the seeded demo user
	loginBody, _ := json.Marshal(map[string]string{
		"usernameOrEmail": "demo",
		"password":        "demo-password",
	})
	resp, err := http.Post(base+"/api/auth/login", "application/json", bytes.NewBuffer(loginBody))
	if err != nil {
		fmt.Printf("Login request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil || login.Data.Token == "" {
		fmt.Printf("Login failed (status %d). Did you run cmd/migrate seed?\n", resp.StatusCode)
		return
	}
	fmt.Println("✅ Logged in as demo")

	// Create a throwaway public quiz
	activityBody, _ := json.Marshal(map[string]interface{}{
		"title":       "Smoke Test Quiz",
		"slug":        "smoke-test-quiz",
		"isPublic":    true,
		"contentType": "quiz",
		"contentData": map[string]interface{}{
			"questions": []map[string]interface{}{
				{"question": "Does the embed flow work?", "options": []string{"no", "yes"}, "correct": 1},
			},
		},
	})
	req, _ := http.NewRequest("POST", base+"/api/activities/", bytes.NewBuffer(activityBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+login.Data.Token)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Create request failed: %v\n", err)
		return
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp2.Body)
		fmt.Printf("Create failed (status %d): %s\n", resp2.StatusCode, body)
		return
	}
	fmt.Println("✅ Created smoke-test-quiz")

	// Anonymous embed resolution
	resp3, err := http.Get(base + "/api/embed/smoke-test-quiz")
	if err != nil {
		fmt.Printf("Embed fetch failed: %v\n", err)
		return
	}
	defer resp3.Body.Close()
	embedJSON, _ := io.ReadAll(resp3.Body)
	fmt.Printf("✅ Embed JSON (status %d): %s\n", resp3.StatusCode, embedJSON)

	// Rendered document
	resp4, err := http.Get(base + "/api/embed/smoke-test-quiz/render")
	if err != nil {
		fmt.Printf("Render fetch failed: %v\n", err)
		return
	}
	defer resp4.Body.Close()
	doc, _ := io.ReadAll(resp4.Body)
	fmt.Printf("✅ Rendered document: %d bytes (status %d)\n", len(doc), resp4.StatusCode)

	// SDK script
	resp5, err := http.Get(base + "/sdk/activities.js")
	if err != nil {
		fmt.Printf("SDK fetch failed: %v\n", err)
		return
	}
	defer resp5.Body.Close()
	script, _ := io.ReadAll(resp5.Body)
	fmt.Printf("✅ SDK script: %d bytes (status %d)\n", len(script), resp5.StatusCode)
}
