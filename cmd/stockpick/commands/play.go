package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/stockpick/internal/api"
	"github.com/wonny/stockpick/internal/api/handlers"
	"github.com/wonny/stockpick/internal/api/live"
	"github.com/wonny/stockpick/internal/contracts"
	"github.com/wonny/stockpick/internal/game"
	"github.com/wonny/stockpick/internal/gameconfig"
	"github.com/wonny/stockpick/internal/presentation"
	"github.com/wonny/stockpick/internal/presentation/console"
	"github.com/wonny/stockpick/pkg/config"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one game",
	Long: `Play one game from sampling to the final standings.

Without --game the players are asked for on the console and the window,
quota and budget come from GAME_* settings or flags.

Example:
  go run ./cmd/stockpick play
  go run ./cmd/stockpick play --start 2014-01 --end 2020-12 --quota 3
  go run ./cmd/stockpick play --game game.yaml --auto --live :8090`,
	RunE: runPlay,
}

var (
	playGameFile     string
	playAuto         bool
	playFetchMissing bool
	playLive         string
	playQuota        int
	playStart        string
	playEnd          string
	playNoAnimate    bool
	playStyle        string
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringVar(&playGameFile, "game", "", "game file (YAML) with players, window and quota")
	playCmd.Flags().BoolVar(&playAuto, "auto", false, "every player picks the lowest available index")
	playCmd.Flags().BoolVar(&playFetchMissing, "fetch-missing", false, "load price history for drafted companies without a start-month price")
	playCmd.Flags().StringVar(&playLive, "live", "", "serve the live view on this address, e.g. :8090")
	playCmd.Flags().IntVar(&playQuota, "quota", 0, "companies per player (default GAME_QUOTA)")
	playCmd.Flags().StringVar(&playStart, "start", "", "start month YYYY-MM (default GAME_START)")
	playCmd.Flags().StringVar(&playEnd, "end", "", "end month YYYY-MM (default GAME_END)")
	playCmd.Flags().BoolVar(&playNoAnimate, "no-animate", false, "print frames without clearing the screen")
	playCmd.Flags().StringVar(&playStyle, "style", "dark", "standings style: dark, light, notty")
}

// session is everything a game needs before it starts
type session struct {
	opts     game.Options
	players  []gameconfig.PlayerEntry
	budget   float64
	universe contracts.Universe
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := setup(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	prompter := console.NewPrompter(os.Stdin, os.Stdout)

	var s *session
	if playGameFile != "" {
		s, err = sessionFromFile(ctx, d, playGameFile)
	} else {
		s, err = sessionFromPrompt(ctx, d, prompter)
	}
	if err != nil {
		return err
	}

	provider := d.priceProvider()
	g, err := game.New(s.universe, provider, s.opts, d.log)
	if err != nil {
		return err
	}
	for _, p := range s.players {
		budget := p.Budget
		if budget == 0 {
			budget = s.budget
		}
		if _, err := g.AddPlayer(p.Name, budget); err != nil {
			return err
		}
	}

	if err := g.Sample(ctx); err != nil {
		return fmt.Errorf("sample catalog: %w", err)
	}
	fmt.Printf("Game %s: %s → %s, %d picks each\n\n", g.ID, g.Start, g.End, g.Quota)

	var chooser game.Chooser = prompter
	if playAuto {
		chooser = game.AutoChooser{}
	}
	if err := g.Draft(ctx, chooser); err != nil {
		return fmt.Errorf("draft: %w", err)
	}
	for _, p := range g.Players {
		fmt.Printf("%s holds %s\n", p.Name, holdingList(p.Holdings))
	}

	if playFetchMissing {
		if err := fetchMissing(ctx, d, g, provider); err != nil {
			return err
		}
	}

	frameDelay := d.cfg.Game.FrameDelay
	var renderers presentation.Multi

	var server *api.Server
	var hub *live.Hub
	if playLive != "" {
		hub = live.NewHub(d.log)
		board := live.NewBoard(hub, frameDelay)
		board.Begin(g.ID)
		server = api.New(playLive, d.log, api.NewRouter(handlers.NewGameHandler(board, d.companies, d.log), hub, d.log))
		go func() {
			if err := server.Start(); err != nil {
				d.log.WithError(err).Error("Live server stopped")
			}
		}()
		fmt.Printf("\nLive view: http://%s/api/game (websocket /ws)\n", liveHost(playLive))

		// the board paces the frames; the console prints them at once
		frameDelay = 0
		renderers = append(renderers, board)
	}
	renderers = append(presentation.Multi{console.NewRenderer(os.Stdout, console.Options{
		FrameDelay: frameDelay,
		Animate:    !playNoAnimate && frameDelay > 0,
		Style:      playStyle,
	})}, renderers...)

	res, err := g.Finish(ctx, renderers)
	if err != nil {
		if errors.Is(err, game.ErrMissingStartPrice) {
			fmt.Println("\nA drafted company has no price in the start month. Load its history or rerun with --fetch-missing.")
		}
		return err
	}
	d.log.WithFields(map[string]interface{}{
		"game_id": res.GameID,
		"winner":  res.Winner.Name,
	}).Info("Game finished")

	if server != nil {
		fmt.Println("\nPress Ctrl+C to stop the live view")
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		hub.Close()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}

func sessionFromFile(ctx context.Context, d *deps, path string) (*session, error) {
	gc, err := gameconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load game file: %w", err)
	}
	hash, err := gameconfig.Hash(gc)
	if err != nil {
		return nil, err
	}
	d.log.WithFields(map[string]interface{}{
		"file":    path,
		"hash":    hash[:12],
		"players": len(gc.Players),
	}).Info("Game file loaded")

	start, end := gc.Window()
	s := &session{
		opts:    game.Options{Start: start, End: end, Quota: gc.Game.Quota},
		players: gc.Players,
		budget:  gc.Game.Budget,
	}

	if len(gc.Universe.Symbols) == 0 {
		s.universe = d.companies
		return s, nil
	}

	companies, err := d.companies.Find(ctx, contracts.CompanyCriteria{Symbols: gc.Universe.Symbols})
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	if len(companies) < len(gc.Universe.Symbols) {
		d.log.WithFields(map[string]interface{}{
			"listed": len(gc.Universe.Symbols),
			"stored": len(companies),
		}).Warn("Some universe symbols are not stored")
	}
	seed := gc.Universe.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.universe = game.NewStaticUniverse(companies, seed)
	return s, nil
}

func sessionFromPrompt(ctx context.Context, d *deps, p *console.Prompter) (*session, error) {
	opts := game.Options{Start: d.cfg.Game.Start, End: d.cfg.Game.End, Quota: d.cfg.Game.Quota}
	if playQuota > 0 {
		opts.Quota = playQuota
	}
	if playStart != "" {
		start, err := config.ParseMonth(playStart)
		if err != nil {
			return nil, fmt.Errorf("--start: %w", err)
		}
		opts.Start = start
	}
	if playEnd != "" {
		end, err := config.ParseMonth(playEnd)
		if err != nil {
			return nil, fmt.Errorf("--end: %w", err)
		}
		opts.End = end
	}

	n, err := p.AskInt(ctx, "Number of players")
	if err != nil {
		return nil, err
	}
	players := make([]gameconfig.PlayerEntry, 0, n)
	for i := 1; i <= n; i++ {
		name, err := p.AskString(ctx, fmt.Sprintf("Player %d name", i))
		if err != nil {
			return nil, err
		}
		players = append(players, gameconfig.PlayerEntry{Name: name})
	}

	return &session{
		opts:     opts,
		players:  players,
		budget:   d.cfg.Game.Budget,
		universe: d.companies,
	}, nil
}

// fetchMissing loads history for drafted companies lacking a start-month price
func fetchMissing(ctx context.Context, d *deps, g *game.Game, provider contracts.PriceSeriesProvider) error {
	drafted := g.Drafted()
	ids := make([]int64, len(drafted))
	byID := make(map[int64]contracts.Company, len(drafted))
	for i, c := range drafted {
		ids[i] = c.ID
		byID[c.ID] = c
	}

	missing, err := d.prices.MissingAt(ctx, ids, g.Start.Time())
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}

	companies := make([]contracts.Company, len(missing))
	for i, id := range missing {
		companies[i] = byID[id]
	}
	fmt.Printf("\nLoading price history for %s...\n", holdingList(companies))

	rep, err := d.loader().PriceHistoryFor(ctx, companies)
	if err != nil {
		return fmt.Errorf("fetch missing prices: %w", err)
	}
	d.log.WithField("report", rep.String()).Info("Missing prices loaded")

	if inv, ok := provider.(interface {
		Invalidate(ctx context.Context, ids []int64, start, end time.Time) error
	}); ok {
		if err := inv.Invalidate(ctx, ids, g.Start.Time(), g.End.Time()); err != nil {
			d.log.WithError(err).Warn("Failed to invalidate cached prices")
		}
	}
	return nil
}

func holdingList(companies []contracts.Company) string {
	parts := make([]string, len(companies))
	for i, c := range companies {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

func liveHost(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
