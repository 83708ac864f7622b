package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/veselink1/quick-draw/client"
	"github.com/veselink1/quick-draw/domain"
	"github.com/veselink1/quick-draw/game"
	"github.com/veselink1/quick-draw/roomsync"
	"github.com/veselink1/quick-draw/shared/logger"
)

// runHost logs in, creates a room, waits for enough players, then drives
// the stage machine for the room it owns until the room goes away or the
// context is cancelled.
func runHost(ctx context.Context, cfg *Config) error {
	lgr := logger.New(cfg.logLevel)

	identity, err := client.Login(ctx, &http.Client{Timeout: cfg.timeout}, cfg.serverURL, cfg.name)
	if err != nil {
		return err
	}

	api := client.NewHTTPAPI(cfg.serverURL, identity.Token, cfg.timeout)
	room, err := api.CreateRoom(ctx)
	if err != nil {
		return err
	}
	defer api.LeaveRoom(context.Background(), room.ID)

	lgr.Info().Str("room_id", room.ID).Int("min_players", cfg.minPlayers).Msg("room created, waiting for players")

	mutator := client.NewMutator(api, identity, lgr)
	driver := game.NewDriver(identity.PlayerID, mutator, lgr)
	syncer := roomsync.NewSynchronizer(api, room.ID, cfg.period, roomsync.NewTickerGen(), lgr)

	go syncer.Run(ctx)

	for ev := range syncer.Events() {
		if ev.Err != nil {
			if errors.Is(ev.Err, domain.ErrRoomNotFound) {
				return ev.Err
			}
			continue
		}

		snapshot := ev.Room
		if !snapshot.Frozen {
			if len(snapshot.Players) >= cfg.minPlayers {
				lgr.Info().Int("players", len(snapshot.Players)).Msg("starting game")
				mutator.StartGame(ctx, snapshot)
			}
			continue
		}

		// Frozen but never seeded: the start was interrupted between the
		// freeze and the seed write. Re-seed, otherwise the room can
		// never progress.
		if snapshot.State == nil {
			mutator.SeedState(ctx, snapshot.ID)
			continue
		}

		driver.Apply(ctx, snapshot, time.Now())
	}

	return ctx.Err()
}
