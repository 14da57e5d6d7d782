// Command node runs the inbound message-processing service: it consumes
// chat-platform updates from the broker, advances per-user sessions and
// publishes outbound answers.
package main

import (
	"context"
	"log"

	"github.com/telestash/node/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("node: %v", err)
	}
}
