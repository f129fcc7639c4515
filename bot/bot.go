package bot

import (
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mlbot/api/maplist"
	"mlbot/api/ninjakiwi"
	"mlbot/bot/events"
	"mlbot/bot/slashcommands"
	"mlbot/bot/votes"
	"mlbot/database"
	"mlbot/utils/config"
	"mlbot/utils/discordutil"
	"mlbot/utils/requests"

	dgo "github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Slash commands and components arrive over the gateway regardless of intents,
// guilds are only needed to know where the bot is.
var guildIntents = dgo.IntentGuilds

func Run(cfg *config.Config, botToken string, sync bool) error {
	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	log.SetLevel(level)

	cache, err := database.OpenResponseCache(cfg.CacheDir())
	if err != nil {
		log.WithError(err).WithField("dir", cfg.CacheDir()).Warn("cannot open response cache on disk, keeping it in memory")

		if cache, err = database.OpenMemoryCache(); err != nil {
			return fmt.Errorf("cannot open response cache: %w", err)
		}
	}
	defer closeCache(cache)

	nkHost := hostOf(cfg.API.NinjaKiwiURL)
	req := requests.New(cfg.API.Timeout,
		requests.WithCache(cache, requests.HostTTL(cfg.API.CacheTTL, map[string]time.Duration{nkHost: cfg.API.NinjaKiwiCacheTTL})),
		requests.WithRateLimit(nkHost, cfg.API.NinjaKiwiRateLimit),
	)

	var signer *maplist.Signer
	if cfg.API.PrivateKeyPath != "" {
		if signer, err = maplist.LoadSigner(cfg.API.PrivateKeyPath); err != nil {
			return err
		}
	} else {
		log.Warn("no private key configured, writes to the Maplist API will be unsigned")
	}

	fmt.Printf("\nInitializing state database..\n")

	// Create or open DB.
	db, err := database.New(cfg.StateDir())
	if err != nil {
		return fmt.Errorf("cannot initialize state database: %w", err)
	}

	voteStore, err := database.AssignStore(db, database.MAP_VOTES_STORE)
	if err != nil {
		return err
	}

	usageStore, err := database.AssignStore(db, database.USAGE_STORE)
	if err != nil {
		return err
	}

	deps := &slashcommands.Deps{
		Config:    cfg,
		Maplist:   maplist.New(cfg.API.BaseURL, req, signer),
		NinjaKiwi: ninjakiwi.New(cfg.API.NinjaKiwiURL, req),
		Requests:  req,
		Views:     discordutil.NewRegistry(cfg.Bot.ViewLifetime),
		Votes:     votes.NewTracker(voteStore, cfg.Maplist.VoteDuration),
		Usage:     usageStore,
		Started:   time.Now(),
	}
	handlers := events.New(deps, slashcommands.All(deps), cache, sync)
	handlers.Database = db
	deps.Tasks = handlers

	// Initialize a Discord Session
	s, err := dgo.New("Bot " + botToken)
	if err != nil {
		return err
	}

	// Never run handlers synchronously, always run them in a goroutine.
	s.SyncEvents = false

	// Register funcs that handle specific gateway events.
	// https://discord.com/developers/docs/events/gateway-events#receive-events
	s.AddHandler(handlers.OnReady)
	s.AddHandler(handlers.OnInteractionCreateApplicationCommand) // Slash cmds
	s.AddHandler(handlers.OnInteractionCreateComponent)          // Buttons, select menus and modal submits

	s.Identify.Intents = guildIntents

	fmt.Printf("\nEstablishing connection to Discord..\n")

	// Open WS connection to Discord.
	if err := s.Open(); err != nil {
		return fmt.Errorf("cannot open Discord session: %w", err)
	}

	// Wait for Ctrl+C or kill.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	sig := <-c

	fmt.Printf("\nShutting down bot with signal: %s\n", strings.ToUpper(sig.String()))

	handlers.Stop()
	if err := db.Flush(); err != nil {
		log.WithError(err).Error("error flushing state database")
	}
	if err := s.Close(); err != nil {
		log.WithError(err).Error("error closing Discord session")
	}

	return nil
}

func closeCache(cache *database.ResponseCache) {
	if err := cache.Close(); err != nil {
		log.WithError(err).Error("error closing response cache")
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return u.Hostname()
}
