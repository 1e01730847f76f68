package prescore

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"path"
	"strings"

	"github.com/jonesrussell/north-cloud/jsonld-quality/logger"
	"github.com/jonesrussell/north-cloud/jsonld-quality/rubric"
)

// Component names, in breakdown order.
const (
	ComponentPatternMatch    = "pattern_match"
	ComponentDepth           = "depth_optimal"
	ComponentCleanliness     = "url_cleanliness"
	ComponentSitemapPriority = "sitemap_priority"
	ComponentContentBonus    = "content_type_bonus"
)

// Cleanliness scoring.
const (
	fewParamsScore       = 12.0
	manyParamsScore      = 7.0
	maxFewParams         = 2
	trackingPenalty      = 5.0
	longURLPenalty       = 3.0
	fragmentPenalty      = 2.0
	priorityContentBonus = 10.0
	otherContentBonus    = 5.0
)

// Depth scoring.
const (
	homepageDepthScore = 5.0
	shallowDepthScore  = 10.0
	optimalDepthMin    = 2
	optimalDepthMax    = 4
	deepSegmentPenalty = 3.0
)

// features are the URL signals the rubric criteria read. They are extracted once per candidate.
type features struct {
	depth        int
	queryParams  int
	tracking     bool
	long         bool
	fragment     bool
	priority     *float64
	universal    float64
	pathTyped    bool
	categoryHits int
	contentType  ContentType
	aiPriority   bool
}

// Scorer computes pre-scores. It is immutable after construction and safe for concurrent use.
type Scorer struct {
	log    logger.Logger
	rubric rubric.Rubric[features]

	universal       *matcher
	universalPoints []float64

	contentTypes   *matcher
	patternType    []ContentType
	typeRank       map[ContentType]int
	exclude        *matcher
	ignoreExt      map[string]bool
	trackingExact  []string
	trackingPrefix []string
	aiPriority     map[ContentType]bool
	maxURLLength   int
}

// NewScorer validates cfg and compiles its pattern sets.
func NewScorer(cfg Config, log logger.Logger) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pre-score config: %w", err)
	}

	s := &Scorer{
		log:          logger.OrNop(log),
		typeRank:     make(map[ContentType]int, len(cfg.ContentTypes)),
		ignoreExt:    make(map[string]bool, len(cfg.IgnoreExtensions)),
		aiPriority:   make(map[ContentType]bool, len(cfg.AIPriorityContentTypes)),
		maxURLLength: cfg.MaxURLLength,
	}
	if s.maxURLLength == 0 {
		s.maxURLLength = defaultMaxURLLength
	}

	s.compileUniversal(cfg.Universal)
	s.compileContentTypes(cfg.ContentTypes)
	s.exclude = newMatcher(normalizePatterns(cfg.Exclude))

	for _, ext := range cfg.IgnoreExtensions {
		s.ignoreExt[strings.ToLower(strings.TrimSpace(ext))] = true
	}
	for _, p := range normalizePatterns(cfg.TrackingParams) {
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			s.trackingPrefix = append(s.trackingPrefix, prefix)
			continue
		}
		s.trackingExact = append(s.trackingExact, p)
	}
	for _, ct := range cfg.AIPriorityContentTypes {
		s.aiPriority[ParseContentType(string(ct))] = true
	}

	r, err := rubric.New(TotalMax,
		rubric.Criterion[features]{Name: ComponentPatternMatch, Max: PatternMatchMax, Score: patternScore},
		rubric.Criterion[features]{Name: ComponentDepth, Max: DepthMax, Score: depthScore},
		rubric.Criterion[features]{Name: ComponentCleanliness, Max: CleanlinessMax, Score: cleanlinessScore},
		rubric.Criterion[features]{Name: ComponentSitemapPriority, Max: SitemapPriorityMax, Score: sitemapScore},
		rubric.Criterion[features]{Name: ComponentContentBonus, Max: ContentBonusMax, Score: contentBonus},
	)
	if err != nil {
		return nil, fmt.Errorf("build pre-score rubric: %w", err)
	}
	s.rubric = r

	return s, nil
}

func (s *Scorer) compileUniversal(patterns []WeightedPattern) {
	var names []string
	for _, p := range patterns {
		name := fold(strings.TrimSpace(p.Pattern))
		if i := indexOf(names, name); i >= 0 {
			s.universalPoints[i] = max(s.universalPoints[i], p.Points)
			continue
		}
		names = append(names, name)
		s.universalPoints = append(s.universalPoints, p.Points)
	}
	s.universal = newMatcher(names)
}

// compileContentTypes flattens the ordered type table into one matcher. A pattern listed under two
// types belongs to the first.
func (s *Scorer) compileContentTypes(table []ContentTypePatterns) {
	var names []string
	for rank, entry := range table {
		s.typeRank[entry.Type] = rank
		for _, p := range normalizePatterns(entry.Patterns) {
			if indexOf(names, p) >= 0 {
				continue
			}
			names = append(names, p)
			s.patternType = append(s.patternType, entry.Type)
		}
	}
	s.contentTypes = newMatcher(names)
}

func indexOf(list []string, v string) int {
	for i, item := range list {
		if item == v {
			return i
		}
	}
	return -1
}

// Score computes the pre-score of c. d carries the category patterns of c's domain.
func (s *Scorer) Score(c Candidate, d DomainPatterns) Result {
	res := Result{
		URL:         c.URL,
		Domain:      c.Domain,
		Tier:        c.Tier,
		Category:    c.Category,
		ContentType: ContentUnknown,
	}

	u, err := parseCandidateURL(c.URL)
	if err != nil {
		res.Breakdown = s.rubric.Zero()
		res.ShouldExclude = true
		res.ExclusionReason = ReasonUnparseableURL
		s.log.Debug("url excluded",
			logger.String("url", c.URL),
			logger.String("reason", ReasonUnparseableURL),
			logger.Error(err))
		return res
	}
	if res.Domain == "" {
		res.Domain = strings.ToLower(u.Hostname())
	}

	matchPath := normalizedPath(u)
	f := s.extract(c, u, matchPath, d)

	res.Breakdown = s.rubric.Evaluate(f)
	res.PreScore = res.Breakdown.Total
	res.ContentType = f.contentType
	res.ExclusionReason = s.exclusionReason(u, matchPath)
	res.ShouldExclude = res.ExclusionReason != ""

	s.log.Debug("url pre-scored",
		logger.String("url", c.URL),
		logger.Float64("pre_score", res.PreScore),
		logger.String("content_type", string(res.ContentType)),
		logger.Bool("excluded", res.ShouldExclude))

	return res
}

var errNotWebURL = errors.New("not an absolute http(s) URL")

func parseCandidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", errNotWebURL, raw)
	}
	return u, nil
}

// normalizedPath is the folded URL path with a trailing slash, so "/search" matches "/search/".
func normalizedPath(u *url.URL) string {
	p := fold(u.Path)
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

func (s *Scorer) extract(c Candidate, u *url.URL, matchPath string, d DomainPatterns) features {
	f := features{
		depth:    pathDepth(matchPath),
		fragment: u.Fragment != "",
		long:     len(strings.TrimSpace(c.URL)) > s.maxURLLength,
		priority: c.SitemapPriority,
	}

	query := u.Query()
	f.queryParams = len(query)
	for key := range query {
		if s.isTracking(strings.ToLower(key)) {
			f.tracking = true
			break
		}
	}
	if !f.tracking {
		f.tracking = s.hasPathSession(matchPath)
	}

	for _, idx := range s.universal.match(matchPath) {
		f.universal = max(f.universal, s.universalPoints[idx])
	}

	f.contentType = ContentUnknown
	best := -1
	for _, idx := range s.contentTypes.match(matchPath) {
		ct := s.patternType[idx]
		if rank := s.typeRank[ct]; best < 0 || rank < best {
			best = rank
			f.contentType = ct
		}
	}
	f.pathTyped = best >= 0
	if !f.pathTyped && c.DetectedContentType != "" {
		f.contentType = ParseContentType(c.DetectedContentType)
	}
	f.aiPriority = s.aiPriority[f.contentType]

	f.categoryHits = len(d.m.match(matchPath))

	return f
}

func (s *Scorer) isTracking(key string) bool {
	for _, name := range s.trackingExact {
		if key == name {
			return true
		}
	}
	for _, prefix := range s.trackingPrefix {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// hasPathSession detects path-embedded session ids such as "/page;jsessionid=abc".
func (s *Scorer) hasPathSession(matchPath string) bool {
	for _, name := range s.trackingExact {
		if strings.Contains(matchPath, ";"+name+"=") {
			return true
		}
	}
	return false
}

func (s *Scorer) exclusionReason(u *url.URL, matchPath string) string {
	if hits := s.exclude.match(matchPath); len(hits) > 0 {
		return reasonPatternPrefix + s.exclude.patterns[hits[0]]
	}
	ext := strings.ToLower(path.Ext(strings.TrimSuffix(u.Path, "/")))
	if ext != "" && s.ignoreExt[ext] {
		return reasonExtPrefix + ext
	}
	return ""
}

func pathDepth(matchPath string) int {
	depth := 0
	for _, seg := range strings.Split(strings.Trim(matchPath, "/"), "/") {
		if seg != "" {
			depth++
		}
	}
	return depth
}

func patternScore(f features) float64 {
	score := min(f.universal, UniversalMax)
	if f.pathTyped {
		score += ContentTypeMatch
	}
	score += min(float64(f.categoryHits)*CategoryMatchPoints, CategoryMatchMax)
	return score
}

func depthScore(f features) float64 {
	switch {
	case f.depth == 0:
		return homepageDepthScore
	case f.depth < optimalDepthMin:
		return shallowDepthScore
	case f.depth <= optimalDepthMax:
		return DepthMax
	default:
		return max(0, DepthMax-deepSegmentPenalty*float64(f.depth-optimalDepthMax))
	}
}

func cleanlinessScore(f features) float64 {
	score := CleanlinessMax
	switch {
	case f.queryParams == 0:
	case f.queryParams <= maxFewParams:
		score = fewParamsScore
	default:
		score = manyParamsScore
	}
	if f.tracking {
		score -= trackingPenalty
	}
	if f.long {
		score -= longURLPenalty
	}
	if f.fragment {
		score -= fragmentPenalty
	}
	return max(0, score)
}

func sitemapScore(f features) float64 {
	if f.priority == nil || math.IsNaN(*f.priority) {
		return 0
	}
	return rubric.Clip(*f.priority, 0, 1) * SitemapPriorityMax
}

func contentBonus(f features) float64 {
	switch {
	case f.aiPriority:
		return priorityContentBonus
	case f.contentType != ContentUnknown:
		return otherContentBonus
	default:
		return 0
	}
}
