// Package demo produces plausible dashboard analyses without a text
// recognition engine. It never runs the dashboard parser.
package demo

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/fwojciec/notescan"
)

// Source identifies analyses produced by the demo generator.
const Source = "mock"

// Message accompanies demo analyses in server responses.
const Message = "モックOCRサーバーからのデモデータです"

// Pool is the fixed set of articles demo analyses are drawn from.
var Pool = []notescan.Article{
	{Title: "【2025年版】CPUコア数の選び方 - 4コアで十分？16コア必要？", Views: 22, Comments: 0, Likes: 0},
	{Title: "冷たいGPT-5sを理想の恋人&嫁友に変える禁断テクニック大公開！", Views: 21, Comments: 0, Likes: 2},
	{Title: "OpenAI初のオープンソースモデル「GPT-OSS-20b」徹底解説", Views: 17, Comments: 0, Likes: 1},
	{Title: "AIコーディングエージェント徹底解説 - ターミナルに住むAIが変える開発現場", Views: 13, Comments: 0, Likes: 2},
	{Title: "禁酒34日目で分かったこと", Views: 9, Comments: 0, Likes: 0},
	{Title: "サッカーファンが最強GPU情報源だった話", Views: 8, Comments: 0, Likes: 0},
	{Title: "AIメガネがないと出世できない時代", Views: 8, Comments: 0, Likes: 0},
}

const (
	minArticles = 3
	maxArticles = 7
	maxDaysAgo  = 30
)

var _ notescan.Analyzer = (*Analyzer)(nil)

// Analyzer implements notescan.Analyzer with random demo data.
// It is safe for concurrent use.
type Analyzer struct {
	mu  sync.Mutex
	rnd *rand.Rand

	// Now returns the reference time for article dates. Defaults to time.Now.
	Now func() time.Time
}

// NewAnalyzer creates a demo Analyzer seeded from seed. Equal seeds produce
// equal sequences of analyses.
func NewAnalyzer(seed uint64) *Analyzer {
	return &Analyzer{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Analyze returns between three and seven pool articles with jittered
// metrics and dates within the past 30 days, newest first. The image is
// only checked for presence.
func (a *Analyzer) Analyze(ctx context.Context, image []byte) (*notescan.Analysis, error) {
	if len(image) == 0 {
		return nil, notescan.Errorf(notescan.EINVALID, "画像データがありません")
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	today := now()

	a.mu.Lock()
	n := minArticles + a.rnd.IntN(min(maxArticles, len(Pool))-minArticles+1)
	perm := a.rnd.Perm(len(Pool))[:n]
	articles := make([]notescan.Article, 0, n)
	for _, i := range perm {
		art := Pool[i]
		art.Date = today.AddDate(0, 0, -a.rnd.IntN(maxDaysAgo+1)).Format(notescan.DateFormat)
		art.Views = max(0, art.Views+a.rnd.IntN(16)-5)
		art.Likes = max(0, art.Likes+a.rnd.IntN(4)-1)
		art.Comments = max(0, art.Comments+a.rnd.IntN(2))
		articles = append(articles, art)
	}
	a.mu.Unlock()

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Date > articles[j].Date
	})

	return &notescan.Analysis{
		Source:    Source,
		Mock:      true,
		Articles:  articles,
		CreatedAt: today.UTC(),
	}, nil
}
