package fs

import (
	"context"
	"fmt"
	"os"
	"time"
)

// WaitForFile waits for a file to exist and be non-empty, polling with
// exponential backoff capped at 500ms. It gives up after maxWait or when ctx
// is done.
func WaitForFile(ctx context.Context, filePath string, maxWait time.Duration) error {
	deadline := time.Now().Add(maxWait)
	delay := 50 * time.Millisecond

	for {
		if info, err := os.Stat(filePath); err == nil && info.Size() > 0 {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("timeout waiting for file %s after %v", filePath, maxWait)
		}

		t := time.NewTimer(min(delay, time.Until(deadline)))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay = min(delay*2, 500*time.Millisecond)
	}
}
