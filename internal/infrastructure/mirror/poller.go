package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// poll fetches a node every interval and calls fn whenever its JSON encoding
// changes. The first successful fetch is always delivered.
func poll[T any](
	parent context.Context,
	interval time.Duration,
	log logrus.FieldLogger,
	fetch func(context.Context) (T, error),
	fn func(T),
) Unsubscribe {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	go func() {
		defer close(done)
		var last []byte
		delivered := false

		check := func() {
			value, err := fetch(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.WithError(err).Warn("mirror poll failed")
				}
				return
			}
			encoded, err := json.Marshal(value)
			if err != nil {
				log.WithError(err).Warn("mirror snapshot encode failed")
				return
			}
			if delivered && bytes.Equal(encoded, last) {
				return
			}
			last = encoded
			delivered = true
			fn(value)
		}

		check()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				check()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
