package sources

// FeedSpec declares one additional RSS feed to register, typically from the
// config file.
type FeedSpec struct {
	Name        string
	Description string
	URL         string
	Enabled     bool
}

// builtinFeeds are the RSS feeds shipped by default. HNRSS stays disabled so
// it does not duplicate the Hacker News API source; it remains reachable by
// an explicit fetch.
var builtinFeeds = []FeedSpec{
	{Name: "TechCrunch", Description: "TechCrunch 科技新闻", URL: "https://techcrunch.com/feed/", Enabled: true},
	{Name: "36Kr", Description: "36氪 创投资讯", URL: "https://36kr.com/feed", Enabled: true},
	{Name: "SSPAI", Description: "少数派 效率工具与科技", URL: "https://sspai.com/feed", Enabled: true},
	{Name: "V2EX", Description: "V2EX 技术社区热帖", URL: "https://www.v2ex.com/index.xml", Enabled: true},
	{Name: "HNRSS", Description: "Hacker News RSS (备用源)", URL: "https://hnrss.org/frontpage", Enabled: false},
}

// Builtin constructs the process registry: the static provider table plus any
// extra feeds from configuration. Extra feeds registered under an existing
// name overwrite the builtin entry.
func Builtin(extraFeeds ...FeedSpec) *Registry {
	r := NewRegistry()

	r.Register(Provider{
		Descriptor: Descriptor{Name: "HackerNews", Description: "Hacker News 热门技术新闻", Enabled: true},
		New:        func() Source { return NewHackerNewsSource() },
	})
	r.Register(Provider{
		Descriptor: Descriptor{Name: "GitHubTrending", Description: "GitHub 热门开源项目", Enabled: true},
		New:        func() Source { return NewGitHubTrendingSource() },
	})

	for _, feed := range builtinFeeds {
		registerFeed(r, feed)
	}
	for _, feed := range extraFeeds {
		registerFeed(r, feed)
	}
	return r
}

func registerFeed(r *Registry, feed FeedSpec) {
	name, url := feed.Name, feed.URL
	r.Register(Provider{
		Descriptor: Descriptor{Name: name, Description: feed.Description, Enabled: feed.Enabled},
		New:        func() Source { return NewRSSSource(name, url) },
	})
}
