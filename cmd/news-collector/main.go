// News Collector — 独立开发者的信息情报工具
//
// 自动爬取科技新闻，通过 AI 分析生成项目建议，输出 HTML 报告并可邮件发送。
//
// Usage:
//
//	news-collector sources            # 列出所有新闻源
//	news-collector fetch              # 抓取新闻
//	news-collector analyze            # 抓取并 AI 分析
//	news-collector run --send-email   # 完整流程并发送邮件
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/1NY2/news-collector/internal/aggregator"
	"github.com/1NY2/news-collector/internal/analyzer"
	appcfg "github.com/1NY2/news-collector/internal/config"
	"github.com/1NY2/news-collector/internal/report"
	"github.com/1NY2/news-collector/internal/sources"
	"github.com/1NY2/news-collector/internal/store"
	"github.com/1NY2/news-collector/pkg/llm"
	"github.com/1NY2/news-collector/pkg/notify"
)

var version = "dev"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "news-collector",
		Short:         "📰 新闻收集小助手 - 独立开发者的信息情报工具",
		Long:          "自动从 Hacker News、GitHub Trending 和 RSS 源收集科技新闻，AI 分析趋势并生成项目建议报告。",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径 (默认 news-collector.yml)")

	rootCmd.AddCommand(sourcesCmd())
	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig() (appcfg.Config, error) {
	return appcfg.Load(configPath)
}

func buildAggregator(cfg appcfg.Config) *aggregator.Aggregator {
	return aggregator.New(sources.Builtin(cfg.FeedSpecs()...))
}

// --- sources ---

func sourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "列出所有可用的新闻源",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			registry := sources.Builtin(cfg.FeedSpecs()...)

			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "名称\t描述\t状态")
			for _, d := range registry.Descriptors() {
				status := "✗ 禁用"
				if d.Enabled {
					status = "✓ 启用"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, d.Description, status)
			}
			w.Flush()
			fmt.Printf("\n共 %d 个新闻源\n", registry.Len())
			return nil
		},
	}
}

// --- fetch ---

func fetchCmd() *cobra.Command {
	var sourceName, output string
	var limit int

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "抓取新闻",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = cfg.Fetch.LimitPerSource
			}

			ctx := cmd.Context()
			agg := buildAggregator(cfg)

			var items []sources.NewsItem
			if sourceName != "" {
				items, err = agg.FetchSource(ctx, sourceName, limit)
				if errors.Is(err, aggregator.ErrUnknownSource) {
					fmt.Printf("❌ 未找到源 %q，运行 `news-collector sources` 查看可用源\n", sourceName)
					return nil
				}
				if err != nil {
					return err
				}
			} else {
				items = agg.FetchAll(ctx, limit)
			}

			fmt.Printf("\n✅ 共抓取 %d 条新闻\n\n", len(items))
			printSourceStats(items)

			if output != "" {
				if err := writeItemsFile(output, items); err != nil {
					return err
				}
				fmt.Printf("\n📁 已保存到: %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceName, "source", "s", "", "指定单个源")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "每个源的抓取数量")
	cmd.Flags().StringVarP(&output, "output", "o", "", "输出到 JSON 文件")
	return cmd
}

func printSourceStats(items []sources.NewsItem) {
	counts := make(map[string]int)
	for _, item := range items {
		counts[item.Source]++
	}
	type stat struct {
		name  string
		count int
	}
	stats := make([]stat, 0, len(counts))
	for name, n := range counts {
		stats = append(stats, stat{name, n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].name < stats[j].name
	})

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "来源\t数量")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\n", s.name, s.count)
	}
	w.Flush()
}

// --- analyze ---

func analyzeCmd() *cobra.Command {
	var input string
	var limit int

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "AI 分析新闻（需要配置 AI API）",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if missing := cfg.Validate(); len(missing) > 0 {
				return fmt.Errorf("AI 配置不完整，缺少: %s", strings.Join(missing, ", "))
			}
			if limit <= 0 {
				limit = cfg.Fetch.LimitPerSource
			}

			ctx := cmd.Context()

			var items []sources.NewsItem
			if input != "" {
				items, err = readItemsFile(input)
				if err != nil {
					return err
				}
				fmt.Printf("从文件加载了 %d 条新闻\n", len(items))
			} else {
				fmt.Println("📡 正在抓取新闻...")
				items = buildAggregator(cfg).FetchAll(ctx, limit)
				fmt.Printf("抓取了 %d 条新闻\n", len(items))
			}

			fmt.Println("🤖 AI 正在分析...")
			result, err := analyzeItems(ctx, cfg, items)
			if err != nil {
				return err
			}
			printAnalysis(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "从 JSON 文件读取新闻")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "每个源的抓取数量")
	return cmd
}

func analyzeItems(ctx context.Context, cfg appcfg.Config, items []sources.NewsItem) (*analyzer.AnalysisResult, error) {
	provider := llm.Provider(cfg.AI.Provider)
	if provider == "" {
		provider = llm.OpenAI
	}
	client, err := llm.NewClient(llm.Config{
		Provider:    provider,
		Model:       cfg.AI.Model,
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		MaxRetries:  3,
		Timeout:     120 * time.Second,
		MaxTokens:   4096,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("create LLM client: %w", err)
	}
	defer client.Close()

	return analyzer.New(client).Analyze(ctx, items)
}

func printAnalysis(result *analyzer.AnalysisResult) {
	fmt.Printf("\n📌 本周热点总结\n%s\n", result.Summary)
	if len(result.Trends) > 0 {
		fmt.Printf("\n🏷️  趋势关键词: %s\n", strings.Join(result.Trends, ", "))
	}
	if len(result.Opportunities) > 0 {
		fmt.Printf("💡 市场机会: %s\n", strings.Join(result.Opportunities, ", "))
	}
	if len(result.ProjectSuggestions) > 0 {
		fmt.Println("\n📋 项目建议:")
		for i, proj := range result.ProjectSuggestions {
			fmt.Printf("\n  %d. %s (优先级: %d/5)\n", i+1, proj.Name, proj.Priority)
			fmt.Printf("     %s\n", proj.Description)
			fmt.Printf("     👥 %s | 📊 %s\n", proj.TargetUsers, proj.Difficulty)
		}
	}
}

// --- run ---

func runCmd() *cobra.Command {
	var sendEmail, dryRun, htmlOnly bool
	var limit int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "运行完整流程：抓取 -> 分析 -> 生成报告 -> (发送邮件)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if missing := cfg.Validate(); len(missing) > 0 {
				return fmt.Errorf("AI 配置不完整，缺少: %s", strings.Join(missing, ", "))
			}
			if sendEmail && !dryRun {
				if missing := cfg.ValidateEmail(); len(missing) > 0 {
					return fmt.Errorf("邮件配置不完整，缺少: %s", strings.Join(missing, ", "))
				}
			}
			if limit <= 0 {
				limit = cfg.Fetch.LimitPerSource
			}

			return runPipeline(cmd.Context(), cfg, limit, sendEmail, dryRun, htmlOnly)
		},
	}

	cmd.Flags().BoolVarP(&sendEmail, "send-email", "e", false, "发送邮件")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "仅生成报告，不发送")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "每个源的抓取数量")
	cmd.Flags().BoolVar(&htmlOnly, "html-only", false, "仅生成 HTML（跳过分享卡片）")
	return cmd
}

func runPipeline(ctx context.Context, cfg appcfg.Config, limit int, sendEmail, dryRun, htmlOnly bool) error {
	fmt.Println("🚀 News Collector 开始运行")

	// Step 1: fetch
	fmt.Println("📡 正在抓取新闻...")
	items := buildAggregator(cfg).FetchAll(ctx, limit)
	fmt.Printf("✅ 抓取完成: %d 条新闻\n", len(items))

	// Zero items is a graceful stop, not a failure.
	if len(items) == 0 {
		fmt.Println("⚠️ 没有抓取到新闻，退出")
		return nil
	}

	// Persist the batch so it can be re-analyzed later.
	db, err := store.Open(cfg.Output.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()
	if saved, err := db.SaveItems(ctx, items); err != nil {
		slog.Warn("failed to save items", "error", err)
	} else {
		slog.Info("items saved", "new", saved, "total", len(items))
	}

	// Step 2: analyze
	fmt.Println("🤖 AI 正在分析...")
	analysis, err := analyzeItems(ctx, cfg, items)
	if err != nil {
		return err
	}
	fmt.Println("✅ 分析完成")
	if err := db.SaveAnalysis(ctx, analysis); err != nil {
		slog.Warn("failed to save analysis", "error", err)
	}

	// Step 3: report
	fmt.Println("📄 正在生成报告...")
	gen, err := report.NewGenerator(cfg.Output.Dir)
	if err != nil {
		return err
	}
	reportPath, err := gen.GenerateHTML(analysis, items)
	if err != nil {
		return err
	}
	fmt.Printf("✅ 报告已生成: %s\n", reportPath)

	attachments := []string{reportPath}
	if !htmlOnly {
		cardPath, err := gen.GenerateCard(analysis)
		if err != nil {
			slog.Warn("share card generation failed", "error", err)
		} else {
			fmt.Printf("✅ 分享卡片已生成: %s\n", cardPath)
			attachments = append(attachments, cardPath)
		}
	}

	// Step 4: email
	if sendEmail && !dryRun {
		fmt.Println("📧 正在发送邮件...")
		html, err := gen.RenderHTML(analysis, items)
		if err != nil {
			return err
		}

		dispatcher := notify.NewDispatcher()
		dispatcher.Register(notify.NewEmailNotifier(notify.EmailConfig{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			From:     cfg.Email.User,
			Password: cfg.Email.Password,
			To:       cfg.Email.To,
		}))

		summary := []rune(analysis.Summary)
		if len(summary) > 200 {
			summary = summary[:200]
		}
		msg := notify.Message{
			Subject:     fmt.Sprintf("科技周报 %s", time.Now().Format("2006-01-02")),
			Body:        string(summary),
			HTMLBody:    string(html),
			Attachments: attachments,
		}
		if err := dispatcher.Dispatch(ctx, []notify.Channel{notify.ChannelEmail}, msg); err != nil {
			return err
		}
		fmt.Printf("✅ 邮件已发送至: %s\n", cfg.Email.To)
	}

	fmt.Println("🎉 完成!")
	return nil
}

// --- version ---

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("news-collector %s\n", version)
		},
	}
}

// --- item file IO ---

func writeItemsFile(path string, items []sources.NewsItem) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func readItemsFile(path string) ([]sources.NewsItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items file: %w", err)
	}
	var items []sources.NewsItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse items file: %w", err)
	}
	return items, nil
}
