package judge

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/programme-lv/ojtool/httpc"
	"github.com/programme-lv/ojtool/logger"
)

// PollOptions control submission status polling pacing. The minimum
// interval is enforced here, on the caller side, so no backend can
// accidentally hammer a judge's status page.
type PollOptions struct {
	MinInterval time.Duration // floor between polls, default 3s
	MaxInterval time.Duration // backoff ceiling, default 30s
	Timeout     time.Duration // give up after this long, default 5min
}

func (o PollOptions) withDefaults() PollOptions {
	if o.MinInterval <= 0 {
		o.MinInterval = 3 * time.Second
	}
	if o.MaxInterval <= 0 {
		o.MaxInterval = 30 * time.Second
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Minute
	}
	return o
}

// PollStatus polls a submission until the judge reports a final
// status, backing off between polls. The session is reused across
// polls; the backend is never asked to re-authenticate.
func PollStatus(ctx context.Context, svc Service, handle SubmissionHandle, client httpc.Client, opts PollOptions) (SubmissionStatus, error) {
	opts = opts.withDefaults()
	log := logger.ForComponent(ctx, "judge").With("service", svc.ID())

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = opts.MinInterval
	bo.MaxInterval = opts.MaxInterval
	bo.MaxElapsedTime = 0 // the context deadline bounds the loop

	status := StatusPending
	for {
		var err error
		status, err = svc.SubmissionStatus(ctx, handle, client)
		if err != nil {
			return StatusPending, err
		}
		if status.Final() {
			return status, nil
		}
		wait := bo.NextBackOff()
		log.Debug("submission still pending", "status_url", handle.StatusURL, "next_poll_in", wait)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return status, ctx.Err()
		}
	}
}
