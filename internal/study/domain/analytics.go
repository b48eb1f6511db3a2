package domain

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
)

// レコメンドスコアの合成重み。統計的な根拠はない経験則だが、
// 出力互換性のため定数を厳密に維持する。
const (
	recommendationCompletionWeight = 0.4
	recommendationAlignmentWeight  = 0.3
	recommendationVisitWeight      = 10.0
	recommendationEmotionWeight    = 5.0

	neutralAlignmentScore = 50

	engagementHighThreshold   = 0.8
	engagementMediumThreshold = 0.5
)

// themeKeywords はコメント走査用の固定キーワード表。
// 出現数が同数の場合はこの表の並び順が優先される。
var themeKeywords = []string{
	"history",
	"architecture",
	"beautiful",
	"crowded",
	"guide",
	"authentic",
	"peaceful",
	"expensive",
	"accessible",
	"atmosphere",
}

// StudyAnalytics is the aggregated study summary for one participant.
// The JSON shape (participant, evaluationData, visitPatterns, insights)
// is mirrored verbatim by the export document.
type StudyAnalytics struct {
	Participant    ParticipantSummary `json:"participant"`
	EvaluationData EvaluationData     `json:"evaluationData"`
	VisitPatterns  VisitPatterns      `json:"visitPatterns"`
	Insights       Insights           `json:"insights"`
}

// ParticipantSummary is the participant slice of the analytics document.
type ParticipantSummary struct {
	ID           string    `json:"id"`
	EnrolledAt   time.Time `json:"enrolledAt"`
	ACUXType     string    `json:"acuxType,omitempty"`
	ConsentGiven bool      `json:"consentGiven"`
}

// EvaluationData aggregates questionnaire responses across evaluations.
type EvaluationData struct {
	TotalCount     int                     `json:"totalCount"`
	PhaseBreakdown map[EvaluationPhase]int `json:"phaseBreakdown"`
	UEQSAverages   map[string]float64      `json:"ueqsAverages"`
	EmotionTrends  map[string]float64      `json:"emotionTrends"`
}

// VisitPatterns summarizes the visiting behavior.
type VisitPatterns struct {
	TotalVisits          int      `json:"totalVisits"`
	PreferredSites       []string `json:"preferredSites"`
	AvgDaysBetweenVisits float64  `json:"avgDaysBetweenVisits"`
}

// Insights carries the derived heuristic scores.
type Insights struct {
	CommonThemes         []string `json:"commonThemes"`
	CompletionRate       int      `json:"completionRate"`
	EngagementLevel      string   `json:"engagementLevel"`
	PersonalityAlignment int      `json:"personalityAlignment"`
	RecommendationScore  int      `json:"recommendationScore"`
}

// ComputeAnalytics は参加者の調査データを集計する。同意がない、もしくは参加者が
// 存在しない場合は無条件で nil を返す。nil は「表示するものがない」であって失敗ではない。
// 入力コレクションに対する純粋関数で、I/O は行わない。
func ComputeAnalytics(participant *StudyParticipant, visits []ScheduledVisit, evaluations []EvaluationEntry) *StudyAnalytics {
	if participant == nil || !participant.ConsentGiven {
		return nil
	}

	visitIDs := make(map[string]struct{}, len(visits))
	for _, visit := range visits {
		visitIDs[visit.ID] = struct{}{}
	}

	// 対象外の訪問に紐づく評価は集計から落とす。
	scoped := make([]EvaluationEntry, 0, len(evaluations))
	for _, entry := range evaluations {
		if _, ok := visitIDs[entry.VisitID]; ok {
			scoped = append(scoped, entry)
		}
	}

	phaseBreakdown := make(map[EvaluationPhase]int, 3)
	for _, phase := range AllPhases() {
		phaseBreakdown[phase] = 0
	}
	for _, entry := range scoped {
		phaseBreakdown[entry.Phase]++
	}

	ueqsAverages := averageByKey(scoped, func(e EvaluationEntry) map[string]int { return e.UEQSResponses })
	emotionTrends := averageByKey(scoped, func(e EvaluationEntry) map[string]int { return e.EmotionWheel })

	completionRate := 0.0
	if len(visits) > 0 {
		completionRate = float64(len(scoped)) / float64(len(visits)*3)
	}
	if completionRate > 1 {
		completionRate = 1
	}

	alignment := personalityAlignment(participant, ueqsAverages)

	analytics := &StudyAnalytics{
		Participant: ParticipantSummary{
			ID:           participant.ID,
			EnrolledAt:   participant.EnrolledAt,
			ConsentGiven: participant.ConsentGiven,
		},
		EvaluationData: EvaluationData{
			TotalCount:     len(scoped),
			PhaseBreakdown: phaseBreakdown,
			UEQSAverages:   ueqsAverages,
			EmotionTrends:  emotionTrends,
		},
		VisitPatterns: VisitPatterns{
			TotalVisits:          len(visits),
			PreferredSites:       preferredSites(visits),
			AvgDaysBetweenVisits: avgDaysBetweenVisits(visits),
		},
		Insights: Insights{
			CommonThemes:         commonThemes(scoped),
			CompletionRate:       int(math.Round(completionRate * 100)),
			EngagementLevel:      engagementLevel(completionRate),
			PersonalityAlignment: alignment,
			RecommendationScore:  recommendationScore(completionRate, alignment, len(visits), distinctEmotionKeys(scoped)),
		},
	}
	if participant.ACUX != nil {
		analytics.Participant.ACUXType = participant.ACUX.DominantType
	}
	return analytics
}

// averageByKey はキーごとの平均を取る。キーを持たない評価はその平均から除外され、
// 0 としては扱わない。「未回答」と「0 点」は別物。
func averageByKey(entries []EvaluationEntry, pick func(EvaluationEntry) map[string]int) map[string]float64 {
	samples := make(map[string][]float64)
	for _, entry := range entries {
		for key, value := range pick(entry) {
			samples[key] = append(samples[key], float64(value))
		}
	}

	averages := make(map[string]float64, len(samples))
	for key, values := range samples {
		mean, err := stats.Mean(values)
		if err != nil {
			continue
		}
		averages[key] = mean
	}
	return averages
}

// commonThemes はコメントを小文字化して固定キーワード表と突き合わせ、
// 出現数の上位5件を返す。同数はキーワード表の並び順で決着する。
func commonThemes(entries []EvaluationEntry) []string {
	counts := make(map[string]int, len(themeKeywords))
	for _, entry := range entries {
		comment := strings.ToLower(entry.Comments)
		if comment == "" {
			continue
		}
		for _, keyword := range themeKeywords {
			counts[keyword] += strings.Count(comment, keyword)
		}
	}

	type themeCount struct {
		keyword  string
		count    int
		position int
	}
	ranked := make([]themeCount, 0, len(themeKeywords))
	for i, keyword := range themeKeywords {
		if counts[keyword] > 0 {
			ranked = append(ranked, themeCount{keyword: keyword, count: counts[keyword], position: i})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].position < ranked[j].position
	})

	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	themes := make([]string, 0, len(ranked))
	for _, theme := range ranked {
		themes = append(themes, theme.keyword)
	}
	return themes
}

// preferredSites は訪問回数の多い行き先の上位3件。同数は ID 昇順で安定させる。
func preferredSites(visits []ScheduledVisit) []string {
	counts := make(map[string]int)
	for _, visit := range visits {
		if visit.DestinationID != "" {
			counts[visit.DestinationID]++
		}
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})

	if len(ids) > 3 {
		ids = ids[:3]
	}
	return ids
}

// avgDaysBetweenVisits は訪問日時を並べたときの隣接間隔の平均(日)。2件未満は 0。
func avgDaysBetweenVisits(visits []ScheduledVisit) float64 {
	if len(visits) < 2 {
		return 0
	}

	dates := make([]time.Time, len(visits))
	for i, visit := range visits {
		dates[i] = visit.VisitDate
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	deltas := make([]float64, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		deltas = append(deltas, dates[i].Sub(dates[i-1]).Hours()/24)
	}
	mean, err := stats.Mean(deltas)
	if err != nil {
		return 0
	}
	return mean
}

func engagementLevel(completionRate float64) string {
	switch {
	case completionRate >= engagementHighThreshold:
		return "high"
	case completionRate >= engagementMediumThreshold:
		return "medium"
	default:
		return "low"
	}
}

// personalityAlignment は UEQ-S の 1〜7 スケールを 0〜100 へ線形写像する。
// パーソナリティ未計算または UEQ-S 平均が無い場合は中立の 50。
func personalityAlignment(participant *StudyParticipant, ueqsAverages map[string]float64) int {
	if participant.ACUX == nil || len(ueqsAverages) == 0 {
		return neutralAlignmentScore
	}

	values := make([]float64, 0, len(ueqsAverages))
	for _, v := range ueqsAverages {
		values = append(values, v)
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return neutralAlignmentScore
	}

	alignment := (mean - 1) * 20
	if alignment < 0 {
		alignment = 0
	}
	if alignment > 100 {
		alignment = 100
	}
	return int(math.Round(alignment))
}

func recommendationScore(completionRate float64, alignment, visitCount, emotionKeys int) int {
	score := completionRate*100*recommendationCompletionWeight +
		float64(alignment)*recommendationAlignmentWeight +
		float64(visitCount)*recommendationVisitWeight +
		float64(emotionKeys)*recommendationEmotionWeight
	if score > 100 {
		score = 100
	}
	return int(math.Round(score))
}

func distinctEmotionKeys(entries []EvaluationEntry) int {
	keys := make(map[string]struct{})
	for _, entry := range entries {
		for key := range entry.EmotionWheel {
			keys[key] = struct{}{}
		}
	}
	return len(keys)
}
