package submission

import (
	"context"

	"github.com/equine-kiosk/server/internal/order"
	"github.com/equine-kiosk/server/internal/session"
	logx "github.com/equine-kiosk/server/pkg/logger"
)

// LogSubmitter accepts every order and only logs it. It backs kiosks run
// without a broker, e.g. on a laptop at a small show.
type LogSubmitter struct{}

func (LogSubmitter) Submit(ctx context.Context, sub order.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logx.Info().
		Str("reference", sub.Reference).
		Str("client", sub.Client.Name).
		Int("units", len(sub.Lines)).
		Str("total", sub.Total.StringFixed(2)).
		Msg("order accepted without broker")
	return nil
}

var _ session.OrderSubmitter = LogSubmitter{}
