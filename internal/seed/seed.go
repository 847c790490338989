package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"blogd/internal/model"
	"blogd/internal/store"
)

var (
	firstNames = []string{"Ada", "Grace", "Edsger", "Barbara", "Donald", "Radia", "Ken", "Leslie"}
	lastNames  = []string{"Lovelace", "Hopper", "Dijkstra", "Liskov", "Knuth", "Perlman", "Thompson", "Lamport"}
	topics     = []string{"Caching", "Queues", "Indexes", "Parsers", "Sockets", "Schemas", "Logging", "Routing"}
	words      = []string{"latency", "buffer", "replica", "shard", "cursor", "payload", "snapshot", "backlog", "handshake", "checksum"}
)

// Generator produces random posts. The rand source is injected so
// tests can fix the sequence.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

func (g *Generator) pick(list []string) string {
	return list[g.rng.Intn(len(list))]
}

// Post builds one random {author,title,content} triple.
func (g *Generator) Post() model.Post {
	author := g.pick(firstNames) + " " + g.pick(lastNames)
	title := fmt.Sprintf("Notes on %s, part %d", g.pick(topics), g.rng.Intn(9)+1)

	sentences := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		sentences = append(sentences, fmt.Sprintf(
			"The %s outgrew the %s before anyone checked the %s.",
			g.pick(words), g.pick(words), g.pick(words)))
	}
	content := strings.Join(sentences, " ")

	return model.NewPost(author, title, content)
}

// Populate inserts n random posts into the store.
func (g *Generator) Populate(ctx context.Context, st store.Store, n int) ([]model.Post, error) {
	posts := make([]model.Post, 0, n)
	for i := 0; i < n; i++ {
		post := g.Post()
		if err := st.Create(ctx, &post); err != nil {
			return posts, fmt.Errorf("seeding post %d: %w", i, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}
