package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// RunSessionJanitor は interval ごとに期限切れセッションを削除します。ctx が終了すると戻ります。
func RunSessionJanitor(ctx context.Context, sessions SessionRepository, interval time.Duration, log logrus.FieldLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.DeleteExpired(ctx)
			if err != nil {
				log.WithError(err).Warn("failed to delete expired sessions")
				continue
			}
			if n > 0 {
				log.WithField("deleted", n).Info("expired sessions deleted")
			}
		}
	}
}
