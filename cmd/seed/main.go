package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedOptions struct {
	visitCount      int
	dropCollections bool
	randomSeed      int64
	demoUserID      string
}

type collections struct {
	sites        string
	personas     string
	visits       string
	evaluations  string
	participants string
	pings        string
}

type siteStatsDocument struct {
	EvaluationCount int        `bson:"evaluationCount"`
	AvgSentiment    *float64   `bson:"avgSentiment,omitempty"`
	WishlistCount   int        `bson:"wishlistCount"`
	LastEvaluatedAt *time.Time `bson:"lastEvaluatedAt,omitempty"`
}

type coordinatesDocument struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

type siteDocument struct {
	ID              primitive.ObjectID  `bson:"_id"`
	Name            string              `bson:"name"`
	Description     string              `bson:"description,omitempty"`
	Category        string              `bson:"category"`
	Country         string              `bson:"country"`
	City            string              `bson:"city,omitempty"`
	Coordinates     coordinatesDocument `bson:"coordinates"`
	Rating          float64             `bson:"rating"`
	DurationMinutes int                 `bson:"durationMinutes,omitempty"`
	PersonaIDs      []string            `bson:"personaIds,omitempty"`
	Tags            []string            `bson:"tags,omitempty"`
	OfficialURL     string              `bson:"officialURL,omitempty"`
	PhotoURLs       []string            `bson:"photoURLs,omitempty"`
	Stats           siteStatsDocument   `bson:"stats"`
	CreatedAt       time.Time           `bson:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt"`
}

type personaItemDocument struct {
	PersonaID   string     `bson:"personaId"`
	Title       string     `bson:"title,omitempty"`
	Description string     `bson:"description,omitempty"`
	Traits      []string   `bson:"traits,omitempty"`
	Likes       []string   `bson:"likes,omitempty"`
	Dislikes    []string   `bson:"dislikes,omitempty"`
	Icon        string     `bson:"icon,omitempty"`
	Value       int        `bson:"value"`
	CompletedAt *time.Time `bson:"completedAt,omitempty"`
}

type personaDocument struct {
	ID        primitive.ObjectID    `bson:"_id"`
	UserID    string                `bson:"userId"`
	Personas  []personaItemDocument `bson:"personas"`
	UpdatedAt time.Time             `bson:"updatedAt"`
}

type phaseProgressDocument struct {
	Completed    bool       `bson:"completed"`
	CompletedAt  *time.Time `bson:"completedAt,omitempty"`
	EvaluationID string     `bson:"evaluationId,omitempty"`
}

type visitDocument struct {
	ID               primitive.ObjectID               `bson:"_id"`
	UserID           string                           `bson:"userId"`
	SiteID           primitive.ObjectID               `bson:"siteId"`
	SiteName         string                           `bson:"siteName"`
	Country          string                           `bson:"country,omitempty"`
	City             string                           `bson:"city,omitempty"`
	VisitDate        time.Time                        `bson:"visitDate"`
	DateScheduled    time.Time                        `bson:"dateScheduled"`
	Status           string                           `bson:"status"`
	EnrolledInStudy  bool                             `bson:"enrolledInStudy"`
	StudyPhases      map[string]phaseProgressDocument `bson:"studyPhases,omitempty"`
	NextPendingPhase *string                          `bson:"nextPendingPhase,omitempty"`
}

type evaluationDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	VisitID       primitive.ObjectID `bson:"visitId"`
	SiteID        primitive.ObjectID `bson:"siteId"`
	UserID        string             `bson:"userId"`
	Phase         string             `bson:"phase"`
	Feeling       string             `bson:"feeling"`
	Behavior      string             `bson:"behavior"`
	EmotionWheel  map[string]int     `bson:"emotionWheel,omitempty"`
	UEQSResponses map[string]int     `bson:"ueqsResponses,omitempty"`
	Comments      string             `bson:"comments,omitempty"`
	Sentiment     *float64           `bson:"sentiment,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

type acuxDocument struct {
	Aesthetic    int    `bson:"aesthetic"`
	Cognitive    int    `bson:"cognitive"`
	Behavioral   int    `bson:"behavioral"`
	Affective    int    `bson:"affective"`
	DominantType string `bson:"dominantType"`
}

type participantDocument struct {
	ID              primitive.ObjectID `bson:"_id"`
	UserID          string             `bson:"userId"`
	EnrolledAt      time.Time          `bson:"enrolledAt"`
	ConsentGiven    bool               `bson:"consentGiven"`
	AgeGroup        string             `bson:"ageGroup,omitempty"`
	Gender          string             `bson:"gender,omitempty"`
	Nationality     string             `bson:"nationality,omitempty"`
	EducationLevel  string             `bson:"educationLevel,omitempty"`
	ACUX            *acuxDocument      `bson:"acux,omitempty"`
	CompletedPhases map[string]bool    `bson:"completedPhases,omitempty"`
}

type seedSite struct {
	name        string
	description string
	category    string
	country     string
	city        string
	lat         float64
	lng         float64
	rating      float64
	duration    int
	personaIDs  []string
	tags        []string
	officialURL string
}

// curatedSites はデモ環境に常備するサイトセット。カテゴリ10種を一通りカバーする。
var curatedSites = []seedSite{
	{
		name:        "Acropolis of Athens",
		description: "The ancient citadel overlooking Athens, crowned by the Parthenon.",
		category:    "archaeological_site",
		country:     "Greece",
		city:        "Athens",
		lat:         37.9715,
		lng:         23.7267,
		rating:      4.8,
		duration:    180,
		personaIDs:  []string{"archaeologist", "historian"},
		tags:        []string{"unesco", "guided_tours", "audio_guide"},
		officialURL: "https://whc.unesco.org/en/list/404/",
	},
	{
		name:        "Alhambra",
		description: "A Nasrid palace and fortress complex in Granada.",
		category:    "palace",
		country:     "Spain",
		city:        "Granada",
		lat:         37.1761,
		lng:         -3.5881,
		rating:      4.9,
		duration:    240,
		personaIDs:  []string{"architecture-enthusiast", "art-lover"},
		tags:        []string{"unesco", "guided_tours", "night_visits"},
		officialURL: "https://www.alhambra-patronato.es/",
	},
	{
		name:        "Louvre Museum",
		description: "The world's largest art museum, housed in the former royal palace.",
		category:    "museum",
		country:     "France",
		city:        "Paris",
		lat:         48.8606,
		lng:         2.3376,
		rating:      4.7,
		duration:    300,
		personaIDs:  []string{"art-lover", "historian"},
		tags:        []string{"audio_guide", "wheelchair_accessible", "family_friendly"},
		officialURL: "https://www.louvre.fr/",
	},
	{
		name:        "Himeji Castle",
		description: "Japan's finest surviving feudal castle, known as the White Heron.",
		category:    "fortress",
		country:     "Japan",
		city:        "Himeji",
		lat:         34.8394,
		lng:         134.6939,
		rating:      4.6,
		duration:    150,
		personaIDs:  []string{"architecture-enthusiast", "historian"},
		tags:        []string{"unesco", "family_friendly"},
		officialURL: "https://www.himejicastle.jp/",
	},
	{
		name:        "Santiago de Compostela Cathedral",
		description: "The reputed burial place of Saint James, terminus of the Camino.",
		category:    "religious_site",
		country:     "Spain",
		city:        "Santiago de Compostela",
		lat:         42.8806,
		lng:         -8.5446,
		rating:      4.7,
		duration:    90,
		personaIDs:  []string{"pilgrim", "architecture-enthusiast"},
		tags:        []string{"unesco", "guided_tours"},
		officialURL: "https://catedraldesantiago.es/",
	},
	{
		name:        "Fushimi Inari Taisha",
		description: "Thousands of vermilion torii gates winding up the sacred mountain.",
		category:    "temple",
		country:     "Japan",
		city:        "Kyoto",
		lat:         34.9671,
		lng:         135.7727,
		rating:      4.8,
		duration:    120,
		personaIDs:  []string{"pilgrim", "nature-wanderer"},
		tags:        []string{"night_visits", "family_friendly"},
		officialURL: "https://inari.jp/",
	},
	{
		name:        "Old Town of Dubrovnik",
		description: "A walled medieval city on the Adriatic coast.",
		category:    "historic_district",
		country:     "Croatia",
		city:        "Dubrovnik",
		lat:         42.6404,
		lng:         18.1102,
		rating:      4.6,
		duration:    240,
		personaIDs:  []string{"historian", "architecture-enthusiast"},
		tags:        []string{"unesco", "guided_tours"},
		officialURL: "https://whc.unesco.org/en/list/95/",
	},
	{
		name:        "Keukenhof Gardens",
		description: "One of the world's largest flower gardens, open each spring.",
		category:    "garden",
		country:     "Netherlands",
		city:        "Lisse",
		lat:         52.2697,
		lng:         4.5462,
		rating:      4.5,
		duration:    180,
		personaIDs:  []string{"nature-wanderer", "art-lover"},
		tags:        []string{"family_friendly", "wheelchair_accessible"},
		officialURL: "https://keukenhof.nl/",
	},
	{
		name:        "Rice Terraces of the Philippine Cordilleras",
		description: "Two-thousand-year-old terraces carved into the mountains of Ifugao.",
		category:    "cultural_landscape",
		country:     "Philippines",
		city:        "Banaue",
		lat:         16.9341,
		lng:         121.1362,
		rating:      4.7,
		duration:    360,
		personaIDs:  []string{"nature-wanderer", "archaeologist"},
		tags:        []string{"unesco", "guided_tours"},
		officialURL: "https://whc.unesco.org/en/list/722/",
	},
	{
		name:        "Lincoln Memorial",
		description: "A neoclassical monument honoring the sixteenth U.S. president.",
		category:    "monument",
		country:     "United States",
		city:        "Washington, D.C.",
		lat:         38.8893,
		lng:         -77.0502,
		rating:      4.8,
		duration:    60,
		personaIDs:  []string{"historian"},
		tags:        []string{"wheelchair_accessible", "family_friendly", "night_visits"},
		officialURL: "https://www.nps.gov/linc/",
	},
}

var feelingSamples = []string{
	"Excited to finally see it in person after reading about it for years.",
	"A calm sense of awe walking through the entrance.",
	"Still processing the scale of the place, photos do not do it justice.",
	"Moved by the atmosphere, quieter than I expected.",
}

var behaviorSamples = []string{
	"Planned the route the night before and arrived at opening time.",
	"Joined a guided tour and took notes on the construction techniques.",
	"Wandered without a plan and followed whatever caught my eye.",
	"Sketched the main facade and compared it with the archival photos.",
}

var emotionKeys = []string{"joy", "awe", "serenity", "interest", "nostalgia", "surprise"}

func main() {
	_ = godotenv.Load()

	opts := parseFlags()
	rng := rand.New(rand.NewSource(opts.randomSeed))

	uri := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "culturatlas")
	cols := collections{
		sites:        envOrDefault("SITE_COLLECTION", "sites"),
		personas:     envOrDefault("PERSONA_COLLECTION", "user_personas"),
		visits:       envOrDefault("VISIT_COLLECTION", "visits"),
		evaluations:  envOrDefault("EVALUATION_COLLECTION", "evaluations"),
		participants: envOrDefault("PARTICIPANT_COLLECTION", "study_participants"),
		pings:        envOrDefault("PING_COLLECTION", "pings"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	if opts.dropCollections {
		for _, name := range []string{cols.sites, cols.personas, cols.visits, cols.evaluations, cols.participants} {
			if err := db.Collection(name).Drop(ctx); err != nil {
				log.Fatalf("コレクション %s の削除に失敗: %v", name, err)
			}
		}
		log.Printf("既存コレクションを削除しました")
	}

	now := time.Now().UTC()

	sites, err := seedSites(ctx, db.Collection(cols.sites), now)
	if err != nil {
		log.Fatalf("サイトの投入に失敗: %v", err)
	}
	log.Printf("サイトを %d 件投入しました", len(sites))

	if err := seedDemoPersonas(ctx, db.Collection(cols.personas), opts.demoUserID, now); err != nil {
		log.Fatalf("ペルソナの投入に失敗: %v", err)
	}

	participantID, err := seedParticipant(ctx, db.Collection(cols.participants), opts.demoUserID, now)
	if err != nil {
		log.Fatalf("参加者の投入に失敗: %v", err)
	}
	log.Printf("調査参加者を投入しました id=%s", participantID.Hex())

	visitCount, evalCount, err := seedVisitsAndEvaluations(ctx, db, cols, sites, opts, rng, now)
	if err != nil {
		log.Fatalf("訪問・評価の投入に失敗: %v", err)
	}
	log.Printf("訪問 %d 件 / 評価 %d 件を投入しました", visitCount, evalCount)

	if _, err := db.Collection(cols.pings).InsertOne(ctx, bson.M{"message": "pong", "createdAt": now}); err != nil {
		log.Fatalf("ping ドキュメントの投入に失敗: %v", err)
	}

	log.Printf("シード完了 (db=%s)", dbName)
}

func parseFlags() seedOptions {
	opts := seedOptions{}
	flag.IntVar(&opts.visitCount, "visits", 4, "number of demo visits to create")
	flag.BoolVar(&opts.dropCollections, "drop", false, "drop collections before seeding")
	flag.Int64Var(&opts.randomSeed, "seed", 1, "random seed for reproducible data")
	flag.StringVar(&opts.demoUserID, "user", "demo-user", "user id owning the demo data")
	flag.Parse()
	return opts
}

func seedSites(ctx context.Context, collection *mongo.Collection, now time.Time) ([]siteDocument, error) {
	docs := make([]siteDocument, 0, len(curatedSites))
	models := make([]interface{}, 0, len(curatedSites))
	for _, site := range curatedSites {
		doc := siteDocument{
			ID:              primitive.NewObjectID(),
			Name:            site.name,
			Description:     site.description,
			Category:        site.category,
			Country:         site.country,
			City:            site.city,
			Coordinates:     coordinatesDocument{Lat: site.lat, Lng: site.lng},
			Rating:          site.rating,
			DurationMinutes: site.duration,
			PersonaIDs:      site.personaIDs,
			Tags:            site.tags,
			OfficialURL:     site.officialURL,
			Stats:           siteStatsDocument{},
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		docs = append(docs, doc)
		models = append(models, doc)
	}
	if _, err := collection.InsertMany(ctx, models); err != nil {
		return nil, err
	}
	return docs, nil
}

func seedDemoPersonas(ctx context.Context, collection *mongo.Collection, userID string, now time.Time) error {
	completedAt := now.Add(-30 * 24 * time.Hour)
	doc := personaDocument{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Personas: []personaItemDocument{
			{
				PersonaID:   "historian",
				Title:       "The Historian",
				Description: "Drawn to places where the past is still legible.",
				Traits:      []string{"curious", "methodical"},
				Likes:       []string{"original sources", "context plaques"},
				Dislikes:    []string{"reconstructions without signage"},
				Icon:        "scroll",
				Value:       4,
				CompletedAt: &completedAt,
			},
			{
				PersonaID:   "architecture-enthusiast",
				Title:       "The Architecture Enthusiast",
				Description: "Reads buildings the way others read books.",
				Traits:      []string{"observant", "patient"},
				Likes:       []string{"structural details", "rooftop views"},
				Dislikes:    []string{"crowds blocking sightlines"},
				Icon:        "column",
				Value:       3,
				CompletedAt: &completedAt,
			},
		},
		UpdatedAt: now,
	}
	_, err := collection.InsertOne(ctx, doc)
	return err
}

func seedParticipant(ctx context.Context, collection *mongo.Collection, userID string, now time.Time) (primitive.ObjectID, error) {
	doc := participantDocument{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		EnrolledAt:     now.Add(-45 * 24 * time.Hour),
		ConsentGiven:   true,
		AgeGroup:       "25-34",
		Gender:         "prefer_not_to_say",
		Nationality:    "JP",
		EducationLevel: "masters",
		ACUX: &acuxDocument{
			Aesthetic:    14,
			Cognitive:    18,
			Behavioral:   9,
			Affective:    12,
			DominantType: "cognitive",
		},
		CompletedPhases: map[string]bool{},
	}
	if _, err := collection.InsertOne(ctx, doc); err != nil {
		return primitive.NilObjectID, err
	}
	return doc.ID, nil
}

// seedVisitsAndEvaluations は過去の完了済み訪問と今後の予定を混ぜて投入する。
// 過去の訪問には 3 フェーズ分の評価エントリを付け、分析画面にデータが出る状態にする。
func seedVisitsAndEvaluations(
	ctx context.Context,
	db *mongo.Database,
	cols collections,
	sites []siteDocument,
	opts seedOptions,
	rng *rand.Rand,
	now time.Time,
) (int, int, error) {
	visits := db.Collection(cols.visits)
	evaluations := db.Collection(cols.evaluations)
	participants := db.Collection(cols.participants)

	visitCount := 0
	evalCount := 0
	completedPhases := map[string]bool{}
	phases := []string{"pre-visit", "post-visit", "24h-after"}

	for i := 0; i < opts.visitCount; i++ {
		site := sites[rng.Intn(len(sites))]
		past := i < opts.visitCount-1

		var visitDate time.Time
		status := "scheduled"
		if past {
			visitDate = now.Add(-time.Duration(7*(i+1)) * 24 * time.Hour)
			status = "completed"
		} else {
			visitDate = now.Add(72 * time.Hour)
		}

		visit := visitDocument{
			ID:              primitive.NewObjectID(),
			UserID:          opts.demoUserID,
			SiteID:          site.ID,
			SiteName:        site.Name,
			Country:         site.Country,
			City:            site.City,
			VisitDate:       visitDate,
			DateScheduled:   visitDate.Add(-10 * 24 * time.Hour),
			Status:          status,
			EnrolledInStudy: true,
			StudyPhases:     map[string]phaseProgressDocument{},
		}

		if !past {
			pending := "pre-visit"
			visit.NextPendingPhase = &pending
		}

		if past {
			for offset, phase := range phases {
				submittedAt := phaseSubmissionTime(visitDate, phase)
				sentiment := 3.0 + rng.Float64()*1.5
				entry := evaluationDocument{
					ID:       primitive.NewObjectID(),
					VisitID:  visit.ID,
					SiteID:   site.ID,
					UserID:   opts.demoUserID,
					Phase:    phase,
					Feeling:  feelingSamples[(i+offset)%len(feelingSamples)],
					Behavior: behaviorSamples[(i+offset)%len(behaviorSamples)],
					EmotionWheel: map[string]int{
						emotionKeys[rng.Intn(len(emotionKeys))]: 3 + rng.Intn(3),
						emotionKeys[rng.Intn(len(emotionKeys))]: 2 + rng.Intn(3),
					},
					Comments:  fmt.Sprintf("Seeded %s entry for %s.", phase, site.Name),
					Sentiment: &sentiment,
					CreatedAt: submittedAt,
				}
				if phase != "pre-visit" {
					entry.UEQSResponses = randomUEQSResponses(rng)
				}
				if _, err := evaluations.InsertOne(ctx, entry); err != nil {
					return visitCount, evalCount, err
				}
				evalCount++

				completedAt := submittedAt
				visit.StudyPhases[phase] = phaseProgressDocument{
					Completed:    true,
					CompletedAt:  &completedAt,
					EvaluationID: entry.ID.Hex(),
				}
				completedPhases[fmt.Sprintf("%s-%s", visit.ID.Hex(), phase)] = true
			}
		}

		if _, err := visits.InsertOne(ctx, visit); err != nil {
			return visitCount, evalCount, err
		}
		visitCount++
	}

	if len(completedPhases) > 0 {
		_, err := participants.UpdateOne(ctx,
			bson.M{"userId": opts.demoUserID},
			bson.M{"$set": bson.M{"completedPhases": completedPhases}},
		)
		if err != nil {
			return visitCount, evalCount, err
		}
	}

	return visitCount, evalCount, nil
}

func phaseSubmissionTime(visitDate time.Time, phase string) time.Time {
	switch phase {
	case "pre-visit":
		return visitDate.Add(-12 * time.Hour)
	case "post-visit":
		return visitDate.Add(6 * time.Hour)
	default:
		return visitDate.Add(36 * time.Hour)
	}
}

func randomUEQSResponses(rng *rand.Rand) map[string]int {
	items := []string{"supportive", "easy", "efficient", "clear", "exciting", "interesting", "inventive", "leading_edge"}
	responses := make(map[string]int, len(items))
	for _, item := range items {
		responses[item] = 4 + rng.Intn(4)
	}
	return responses
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
