// internal/jobs/auction_sweeper.go
package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/openroyalty/marketplace-backend/internal/config"
	"github.com/openroyalty/marketplace-backend/internal/services"
)

// AuctionSweeper periodically closes auctions whose end time has passed.
// Auctions do not end themselves; a listing stays ACTIVE until either a
// buy-now settles it or this sweep runs.
type AuctionSweeper struct {
	cron           *cron.Cron
	listingService *services.ListingService
	schedule       string
}

func NewAuctionSweeper(cfg *config.Config, listingService *services.ListingService) *AuctionSweeper {
	return &AuctionSweeper{
		cron:           cron.New(),
		listingService: listingService,
		schedule:       cfg.Auction.SweepSchedule,
	}
}

func (s *AuctionSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return err
	}

	s.cron.Start()
	logrus.WithField("schedule", s.schedule).Info("Auction sweeper started")
	return nil
}

// Stop waits for an in-flight sweep to finish.
func (s *AuctionSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logrus.Info("Auction sweeper stopped")
}

func (s *AuctionSweeper) sweep() {
	settled, unsold, err := s.listingService.CloseExpiredAuctions(time.Now())
	if err != nil {
		logrus.WithError(err).Error("Auction sweep failed")
		return
	}

	if settled > 0 || unsold > 0 {
		logrus.WithFields(logrus.Fields{
			"settled": settled,
			"unsold":  unsold,
		}).Info("Auction sweep completed")
	}
}
