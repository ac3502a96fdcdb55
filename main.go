package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"git.lost.host/meutraa/xylo/internal/analysis"
	"git.lost.host/meutraa/xylo/internal/cache"
	"git.lost.host/meutraa/xylo/internal/config"
	"git.lost.host/meutraa/xylo/internal/export"
	"git.lost.host/meutraa/xylo/internal/game"
	"git.lost.host/meutraa/xylo/internal/generator"
	"git.lost.host/meutraa/xylo/internal/lanes"
	"git.lost.host/meutraa/xylo/internal/render"
	"git.lost.host/meutraa/xylo/internal/score"
	"git.lost.host/meutraa/xylo/internal/theme"
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		log.Fatalln(err)
	}
}

func run(args []string) error {
	cfg, err := config.Parse(args)
	if nil != err {
		return err
	}
	rules, err := cfg.Rules()
	if nil != err {
		return err
	}

	// Fails with analysis.ErrAnalysisUnavailable before any run starts
	extractor, err := analysis.New(analysis.DefaultConfig(cfg.SampleRate, rules.Lanes))
	if nil != err {
		return err
	}
	// Charts differ by lane count, so each count gets its own directory
	cacheDir := filepath.Join(cfg.CacheDir, fmt.Sprintf("%vk", rules.Lanes))
	gen := generator.New(extractor, lanes.DefaultPolicy(rules.Lanes), cache.New(cacheDir))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cfg.Command {
	case config.Analyze:
		return analyze(ctx, gen, cfg, rules)
	case config.Export:
		return exportChart(ctx, gen, cfg)
	case config.Scores:
		return scores(ctx, gen, cfg)
	}

	p := &Program{
		Config:    cfg,
		Rules:     rules,
		Generator: gen,
		Renderer:  &render.DefaultRenderer{},
		Theme:     &theme.DefaultTheme{},
		Scorer:    &score.DefaultScorer{},
	}
	return p.Run(ctx)
}

func analyze(ctx context.Context, gen *generator.Generator, cfg *config.Config, rules game.Ruleset) error {
	start := time.Now()
	chart, err := gen.Generate(ctx, cfg.File)
	if nil != err {
		return err
	}
	fmt.Printf("      File:  %v\n", cfg.File)
	fmt.Printf("     Tempo:  %6.2f bpm\n", chart.Tempo)
	fmt.Printf("  Duration:  %v\n", chart.Duration.Round(time.Millisecond))
	fmt.Printf("     Notes:  %6v\n", len(chart.Notes))
	for lane, count := range chart.LaneCounts(rules.Lanes) {
		fmt.Printf("    Lane %v:  %6v\n", lane, count)
	}
	fmt.Printf("      Took:  %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func exportChart(ctx context.Context, gen *generator.Generator, cfg *config.Config) error {
	chart, err := gen.Generate(ctx, cfg.File)
	if nil != err {
		return err
	}
	f, err := os.Create(cfg.Output)
	if nil != err {
		return fmt.Errorf("unable to create midi file: %w", err)
	}
	if err := export.WriteMIDI(f, chart); nil != err {
		f.Close()
		return fmt.Errorf("unable to write midi file: %w", err)
	}
	return f.Close()
}

func scores(ctx context.Context, gen *generator.Generator, cfg *config.Config) error {
	chart, err := gen.Generate(ctx, cfg.File)
	if nil != err {
		return err
	}
	scorer := &score.DefaultScorer{}
	if err := scorer.Init(cfg.Database); nil != err {
		return err
	}
	defer scorer.Deinit()

	histories, err := scorer.Load(chart)
	if nil != err {
		return err
	}
	if len(histories) == 0 {
		fmt.Println("no stored runs")
		return nil
	}
	schedule := game.DefaultSchedule(cfg.Visibility())
	for _, h := range histories {
		line := fmt.Sprintf("%v  %-8v %8v  %5.1f%%  x%-4v",
			h.Played.Format("2006-01-02 15:04"), h.Ruleset, h.Summary.Score, 100*h.Summary.Accuracy, h.Summary.MaxCombo)
		if rules, err := game.LookupRuleset(h.Ruleset); nil == err {
			replayed := scorer.Replay(chart, &rules, schedule, h.Inputs)
			if replayed.Score != h.Summary.Score {
				line += fmt.Sprintf("  (replays to %v)", replayed.Score)
			}
		}
		if !h.Summary.Passed {
			line += "  failed"
		}
		fmt.Println(strings.TrimRight(line, " "))
	}
	return nil
}
