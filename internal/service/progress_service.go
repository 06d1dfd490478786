package service

import (
	"encoding/json"
	"fmt"
	"sql_practice_backend/internal/model"
	"sql_practice_backend/internal/repository"
	"sql_practice_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

const (
	xpCorrectCard   = 5
	xpIncorrectCard = 2
	xpPerLevel      = 100
)

// ProgressService 学习进度：卡片复习、答题记录、统计与连续学习天数
type ProgressService struct {
	db          *gorm.DB
	cardRepo    *repository.FlashcardProgressRepository
	optionRepo  *repository.FlashcardOptionRepository
	attemptRepo *repository.ProblemAttemptRepository
	statsRepo   *repository.StatisticsRepository
	savedRepo   *repository.SavedProblemRepository
	now         func() time.Time
}

func NewProgressService(
	db *gorm.DB,
	cardRepo *repository.FlashcardProgressRepository,
	optionRepo *repository.FlashcardOptionRepository,
	attemptRepo *repository.ProblemAttemptRepository,
	statsRepo *repository.StatisticsRepository,
	savedRepo *repository.SavedProblemRepository,
) *ProgressService {
	return &ProgressService{
		db:          db,
		cardRepo:    cardRepo,
		optionRepo:  optionRepo,
		attemptRepo: attemptRepo,
		statsRepo:   statsRepo,
		savedRepo:   savedRepo,
		now:         time.Now,
	}
}

// SetClock 替换时钟，测试用
func (s *ProgressService) SetClock(now func() time.Time) {
	s.now = now
}

// RecordFlashcardReview 更新卡片熟练度并累计统计
func (s *ProgressService) RecordFlashcardReview(cardID string, correct bool, topic, level string) error {
	now := s.now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		cards := s.cardRepo.WithTx(tx)
		p, err := cards.FindByCardID(cardID)
		if err != nil {
			return err
		}

		if p == nil {
			p = &model.FlashcardProgress{CardID: cardID, TimesSeen: 1}
			if correct {
				p.TimesCorrect = 1
				p.Difficulty = model.MinCardDifficulty
			} else {
				p.Difficulty = model.MinCardDifficulty + 1
			}
		} else {
			p.TimesSeen++
			if correct {
				p.TimesCorrect++
			}
			p.Difficulty = nextDifficulty(p.Difficulty, correct)
		}
		p.LastSeen = now
		p.Topic = topic
		p.Level = level
		if err := cards.Save(p); err != nil {
			return err
		}

		stats, err := s.statsRepo.WithTx(tx).Get()
		if err != nil {
			return err
		}
		stats.TotalFlashcardsReviewed++
		if correct {
			stats.TotalXP += xpCorrectCard
		} else {
			stats.TotalXP += xpIncorrectCard
		}
		ComputeStreak(stats, now)
		return s.statsRepo.WithTx(tx).Save(stats)
	})
}

// nextDifficulty 答对降低一级，答错升高一级，限定在 [0, 5]
func nextDifficulty(current int, correct bool) int {
	if correct {
		current--
	} else {
		current++
	}
	if current < model.MinCardDifficulty {
		return model.MinCardDifficulty
	}
	if current > model.MaxCardDifficulty {
		return model.MaxCardDifficulty
	}
	return current
}

// ProblemAttemptInput 一次答题结果
type ProblemAttemptInput struct {
	Title      string
	Difficulty string
	Topic      string
	Query      string
	Score      int
	Correct    bool
}

func (s *ProgressService) RecordProblemAttempt(in ProblemAttemptInput) error {
	now := s.now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		attempt := &model.ProblemAttempt{
			ProblemTitle: in.Title,
			Difficulty:   in.Difficulty,
			Topic:        in.Topic,
			Query:        in.Query,
			Score:        in.Score,
			Correct:      in.Correct,
			Timestamp:    now,
		}
		if err := s.attemptRepo.WithTx(tx).Create(attempt); err != nil {
			return err
		}

		stats, err := s.statsRepo.WithTx(tx).Get()
		if err != nil {
			return err
		}
		stats.TotalProblemsAttempted++
		if in.Correct {
			stats.TotalProblemsSolved++
		}
		if in.Score > 0 {
			stats.TotalXP += in.Score / 5
		}
		ComputeStreak(stats, now)
		return s.statsRepo.WithTx(tx).Save(stats)
	})
}

// ComputeStreak 同一天不变，隔天加一，否则重置为 1；最后写入今天的日期
func ComputeStreak(stats *model.Statistics, today time.Time) {
	todayStr := today.Format(util.DateFormat)
	if stats.LastActivityDate == todayStr {
		return
	}

	yesterday := today.AddDate(0, 0, -1).Format(util.DateFormat)
	if stats.LastActivityDate == yesterday {
		stats.CurrentStreak++
	} else {
		stats.CurrentStreak = 1
	}
	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	stats.LastActivityDate = todayStr
}

func (s *ProgressService) GetStats() (*model.StatsOverview, error) {
	stats, err := s.statsRepo.Get()
	if err != nil {
		return nil, err
	}

	level := stats.TotalXP/xpPerLevel + 1
	overview := &model.StatsOverview{
		TotalProblemsAttempted:     stats.TotalProblemsAttempted,
		TotalProblemsSolved:        stats.TotalProblemsSolved,
		TotalFlashcardsReviewed:    stats.TotalFlashcardsReviewed,
		TotalXP:                    stats.TotalXP,
		Level:                      level,
		XPForNextLevel:             level*xpPerLevel - stats.TotalXP,
		CurrentStreak:              stats.CurrentStreak,
		LongestStreak:              stats.LongestStreak,
		LastActivityDate:           stats.LastActivityDate,
		AccuracyByDifficulty:       map[string]model.DifficultyAccuracy{},
		RecentProblems:             []model.RecentProblem{},
		FlashcardStatsByTopicLevel: map[string]map[string]model.TopicLevelStats{},
	}

	counts, err := s.attemptRepo.CountByDifficulty()
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		overview.AccuracyByDifficulty[c.Difficulty] = model.DifficultyAccuracy{
			Total:    c.Total,
			Solved:   c.Solved,
			Accuracy: util.Percent(c.Solved, c.Total),
		}
	}

	recent, err := s.attemptRepo.Recent(util.RecentProblemLimit)
	if err != nil {
		return nil, err
	}
	for _, a := range recent {
		overview.RecentProblems = append(overview.RecentProblems, model.RecentProblem{
			Title:      a.ProblemTitle,
			Difficulty: a.Difficulty,
			Score:      a.Score,
			Timestamp:  a.Timestamp,
		})
	}

	cards, err := s.cardRepo.List()
	if err != nil {
		return nil, err
	}
	overview.FlashcardStatsByTopicLevel, overview.FlashcardStats = summarizeCards(cards)
	return overview, nil
}

type cardAccumulator struct {
	stats    model.TopicLevelStats
	ratioSum float64
	ratioN   int
}

func (a *cardAccumulator) add(p model.FlashcardProgress) {
	a.stats.TotalAttempts++
	if p.TimesCorrect > 0 {
		a.stats.CardsWithCorrect++
	}
	a.stats.TotalReviews += p.TimesSeen
	a.stats.TotalCorrect += p.TimesCorrect
	if p.TimesSeen > 0 {
		a.ratioSum += float64(p.TimesCorrect) / float64(p.TimesSeen)
		a.ratioN++
	}
}

func (a *cardAccumulator) accuracy() float64 {
	if a.ratioN == 0 {
		return 0
	}
	return util.Round1(a.ratioSum / float64(a.ratioN) * 100)
}

// summarizeCards 按等级、主题分组；准确率为每张卡片正确率的平均值
func summarizeCards(cards []model.FlashcardProgress) (map[string]map[string]model.TopicLevelStats, model.FlashcardOverview) {
	var total cardAccumulator
	groups := map[string]map[string]*cardAccumulator{}

	for _, p := range cards {
		total.add(p)
		if p.Topic == "" || p.Level == "" {
			continue
		}
		if groups[p.Level] == nil {
			groups[p.Level] = map[string]*cardAccumulator{}
		}
		acc := groups[p.Level][p.Topic]
		if acc == nil {
			acc = &cardAccumulator{}
			groups[p.Level][p.Topic] = acc
		}
		acc.add(p)
	}

	byLevel := make(map[string]map[string]model.TopicLevelStats, len(groups))
	for level, topics := range groups {
		byLevel[level] = make(map[string]model.TopicLevelStats, len(topics))
		for topic, acc := range topics {
			st := acc.stats
			st.Accuracy = acc.accuracy()
			byLevel[level][topic] = st
		}
	}

	overview := model.FlashcardOverview{
		TotalCardsReviewed: total.stats.TotalAttempts,
		TotalReviews:       total.stats.TotalReviews,
		TotalCorrect:       total.stats.TotalCorrect,
		AverageAccuracy:    total.accuracy(),
	}
	return byLevel, overview
}

// GetFlashcardOptions 读取缓存的选项，未缓存返回 nil
func (s *ProgressService) GetFlashcardOptions(cardID string) ([]model.Option, error) {
	cached, err := s.optionRepo.Find(cardID)
	if err != nil || cached == nil {
		return nil, err
	}

	var options []model.Option
	if err := json.Unmarshal([]byte(cached.Options), &options); err != nil {
		return nil, fmt.Errorf("decode cached options for %s: %w", cardID, err)
	}
	return options, nil
}

func (s *ProgressService) SaveFlashcardOptions(cardID string, options []model.Option) error {
	b, err := json.Marshal(options)
	if err != nil {
		return err
	}
	return s.optionRepo.Upsert(cardID, string(b))
}

// SaveProblem 保存生成的题目，返回 ID
func (s *ProgressService) SaveProblem(problem model.Problem) (string, error) {
	problem.SavedID = ""
	b, err := json.Marshal(problem)
	if err != nil {
		return "", err
	}

	saved := &model.SavedProblem{
		Title:        problem.Title,
		ProblemData:  string(b),
		LastAccessed: s.now(),
	}
	if err := s.savedRepo.Create(saved); err != nil {
		return "", err
	}
	return saved.ID, nil
}

func (s *ProgressService) ListSavedProblems(limit int) ([]model.SavedProblemSummary, error) {
	saved, err := s.savedRepo.List(limit)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(saved))
	for _, p := range saved {
		titles = append(titles, p.Title)
	}
	history, err := s.attemptRepo.SummaryByTitles(titles)
	if err != nil {
		return nil, err
	}

	list := make([]model.SavedProblemSummary, 0, len(saved))
	for _, p := range saved {
		var problem model.Problem
		if err := json.Unmarshal([]byte(p.ProblemData), &problem); err != nil {
			return nil, fmt.Errorf("decode saved problem %s: %w", p.ID, err)
		}
		h := history[p.Title]
		list = append(list, model.SavedProblemSummary{
			ID:           p.ID,
			Title:        p.Title,
			Difficulty:   problem.Difficulty,
			Topic:        problem.Topic,
			Description:  problem.Description,
			CreatedAt:    p.CreatedAt,
			LastAccessed: p.LastAccessed,
			BestScore:    h.BestScore,
			Attempts:     h.Attempts,
			Solved:       h.Solved > 0,
		})
	}
	return list, nil
}

// GetSavedProblem 读取题目并刷新访问时间
func (s *ProgressService) GetSavedProblem(id string) (*model.Problem, error) {
	saved, err := s.savedRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, util.ErrProblemNotFound
	}

	var problem model.Problem
	if err := json.Unmarshal([]byte(saved.ProblemData), &problem); err != nil {
		return nil, fmt.Errorf("decode saved problem %s: %w", id, err)
	}
	problem.SavedID = saved.ID

	if err := s.savedRepo.Touch(id, s.now()); err != nil {
		return nil, err
	}
	return &problem, nil
}

func (s *ProgressService) DeleteSavedProblem(id string) error {
	deleted, err := s.savedRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return util.ErrProblemNotFound
	}
	return nil
}

// Ping 健康检查
func (s *ProgressService) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
