package news

import "fmt"

// DefaultThreshold is the mean similarity an article needs to join a cluster.
const DefaultThreshold = 0.2

// Policy selects which qualifying cluster an incoming article joins.
type Policy int

const (
	// FirstFit joins the earliest-created cluster whose mean score reaches
	// the threshold. This is the reference behavior.
	FirstFit Policy = iota
	// BestFit joins the qualifying cluster with the highest mean score; ties
	// go to the earlier cluster.
	BestFit
)

func (p Policy) String() string {
	switch p {
	case FirstFit:
		return "first-fit"
	case BestFit:
		return "best-fit"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps "first-fit" / "best-fit" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "first-fit":
		return FirstFit, nil
	case "best-fit":
		return BestFit, nil
	default:
		return FirstFit, fmt.Errorf("unknown cluster policy %q", s)
	}
}

// Options configures GroupArticlesWith.
type Options struct {
	Threshold float64
	Policy    Policy
}

// Cluster is a topic group. Title is the seed article's title and never
// changes; CommonKeywords is the union of every member's keywords.
type Cluster struct {
	ClusterID      int       `json:"clusterId"`
	Articles       []Article `json:"articles"`
	Title          string    `json:"title"`
	CommonKeywords []string  `json:"commonKeywords"`

	memberKeys []keywordSet
	common     keywordSet
}

func newCluster(id int, seed Article, words []string) *Cluster {
	c := &Cluster{
		ClusterID:      id,
		Title:          seed.Title,
		CommonKeywords: []string{},
		common:         keywordSet{},
	}
	c.add(seed, words)
	return c
}

func (c *Cluster) add(a Article, words []string) {
	c.Articles = append(c.Articles, a)
	c.memberKeys = append(c.memberKeys, newKeywordSet(words))
	for _, w := range words {
		if _, ok := c.common[w]; ok {
			continue
		}
		c.common[w] = struct{}{}
		c.CommonKeywords = append(c.CommonKeywords, w)
	}
}

// meanScore averages the similarity of keys against every current member.
func (c *Cluster) meanScore(keys keywordSet) float64 {
	sum := 0.0
	for _, m := range c.memberKeys {
		sum += jaccard(keys, m)
	}
	return sum / float64(len(c.memberKeys))
}

// GroupArticles partitions articles into topic clusters with the first-fit
// policy. It is a single greedy pass in input order, so reordering the input
// can change the result.
func GroupArticles(articles []Article, threshold float64) []Cluster {
	return GroupArticlesWith(articles, Options{Threshold: threshold, Policy: FirstFit})
}

// GroupArticlesWith is GroupArticles with an explicit assignment policy.
//
// Each incoming article is compared with every member of every existing
// cluster; a cluster qualifies when the mean score is >= opts.Threshold. An
// article that qualifies nowhere seeds a new cluster. Clusters come back in
// creation order with members in arrival order.
func GroupArticlesWith(articles []Article, opts Options) []Cluster {
	var clusters []*Cluster

	for _, a := range articles {
		words := a.Keywords()
		keys := newKeywordSet(words)

		target := -1
		best := 0.0
		for i, c := range clusters {
			score := c.meanScore(keys)
			if score < opts.Threshold {
				continue
			}
			if opts.Policy == FirstFit {
				target = i
				break
			}
			if target == -1 || score > best {
				target, best = i, score
			}
		}

		if target >= 0 {
			clusters[target].add(a, words)
			continue
		}
		clusters = append(clusters, newCluster(len(clusters), a, words))
	}

	out := make([]Cluster, len(clusters))
	for i, c := range clusters {
		out[i] = *c
		out[i].memberKeys = nil
		out[i].common = nil
	}
	return out
}
