// Package main generates a random signing secret suitable for the
// JWT_SECRET configuration value and prints it as an env assignment.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
)

func main() {
	size := flag.Int("bytes", 32, "number of random bytes in the secret")
	flag.Parse()

	secret, err := generateSecret(*size)
	if err != nil {
		log.Fatalf("failed to generate secret: %v", err)
	}

	fmt.Printf("JWT_SECRET=%s\n", secret)
}

// generateSecret returns n random bytes hex-encoded.
func generateSecret(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
