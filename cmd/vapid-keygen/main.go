// Command vapid-keygen prints a fresh VAPID keypair in .env format.
package main

import (
	"fmt"
	"log"

	"github.com/noah-isme/volley-vote-api/pkg/push"
)

func main() {
	privateKey, publicKey, err := push.GenerateKeys()
	if err != nil {
		log.Fatalf("failed to generate keys: %v", err)
	}
	fmt.Printf("VAPID_PUBLIC_KEY=%s\n", publicKey)
	fmt.Printf("VAPID_PRIVATE_KEY=%s\n", privateKey)
}
