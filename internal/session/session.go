// Package session orchestrates quiz turns for the signed-in user.
package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/idiomquiz/internal/model"
	"github.com/verte-zerg/idiomquiz/internal/progress"
)

// Errors returned to the presentation layer. None of them mutate state.
var (
	ErrInvalidRegistration = errors.New("invalid registration")
	ErrNameTaken           = errors.New("name already registered")
	ErrUnknownUser         = errors.New("unknown user")
	ErrBadCredential       = errors.New("wrong password")
	ErrNotLoggedIn         = errors.New("not logged in")
	ErrNoQuestion          = errors.New("no active question")
	ErrEmptyAnswer         = errors.New("answer is empty")
	ErrNoStamina           = errors.New("out of stamina")
	ErrUnknownTopic        = errors.New("unknown topic")
)

// Store is the persistence gateway.
type Store interface {
	LoadAll(ctx context.Context) (map[string]model.Profile, error)
	Upsert(ctx context.Context, p model.Profile) error
}

// QuestionSource draws questions.
type QuestionSource interface {
	Generate(entries []model.Entry, topic string, tier int) (*model.Question, error)
}

// Deps wires a Controller.
type Deps struct {
	Store     Store
	Engine    *progress.Engine
	Generator QuestionSource
	Entries   []model.Entry
	Topics    []string
	Topic     string
	Log       logrus.FieldLogger
	Now       func() time.Time
}

// Outcome reports a scored submission. SaveErr is set when the answer was
// applied in memory but could not be persisted.
type Outcome struct {
	Correct  bool
	Given    string
	Expected string
	Question model.Question
	Unlocks  []model.Unlock
	SaveErr  error
}

// Status is a read-only snapshot for status bars.
type Status struct {
	Profile   model.Profile
	Topic     string
	Progress  model.TopicProgress
	MaxTier   int
	Target    int
	NextRegen time.Duration
}

type registration struct {
	Name       string `validate:"required,max=32"`
	Credential string `validate:"required,pin"`
}

var pinPattern = regexp.MustCompile(`^[0-9]{4,6}$`)

// Controller is the sole owner of the signed-in profile. It is not safe for
// concurrent use; every call runs to completion before the next.
type Controller struct {
	store    Store
	engine   *progress.Engine
	gen      QuestionSource
	entries  []model.Entry
	topics   []string
	log      logrus.FieldLogger
	now      func() time.Time
	validate *validator.Validate

	profiles map[string]model.Profile
	current  *model.Profile
	topic    string
	question *model.Question
}

// New builds a controller. The profile cache starts empty; call Reload to warm it.
func New(deps Deps) *Controller {
	v := validator.New()
	_ = v.RegisterValidation("pin", func(fl validator.FieldLevel) bool {
		return pinPattern.MatchString(fl.Field().String())
	})
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	topic := deps.Topic
	if topic == "" && len(deps.Topics) > 0 {
		topic = deps.Topics[0]
	}
	return &Controller{
		store:    deps.Store,
		engine:   deps.Engine,
		gen:      deps.Generator,
		entries:  deps.Entries,
		topics:   deps.Topics,
		log:      deps.Log,
		now:      now,
		validate: v,
		profiles: map[string]model.Profile{},
		topic:    topic,
	}
}

// Reload refreshes the profile cache from the store. On failure the cache is
// emptied and the error returned as a warning. The signed-in profile is kept.
func (c *Controller) Reload(ctx context.Context) error {
	profiles, err := c.store.LoadAll(ctx)
	if err != nil {
		c.log.WithError(err).Warn("profile store unavailable")
	}
	if profiles == nil {
		profiles = map[string]model.Profile{}
	}
	if c.current != nil {
		profiles[c.current.Name] = c.current.Clone()
	}
	c.profiles = profiles
	return err
}

// Register creates a new profile after checking the store for the name.
func (c *Controller) Register(ctx context.Context, name, credential string) error {
	name = strings.TrimSpace(name)
	if err := c.validate.Struct(registration{Name: name, Credential: credential}); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRegistration, describe(err))
	}
	if err := c.Reload(ctx); err != nil {
		c.log.WithField("user", name).Warn("registering without a fresh store read")
	}
	if _, exists := c.profiles[name]; exists {
		return ErrNameTaken
	}
	p := model.NewProfile(name, credential, c.engine.Rules().MaxStamina, c.now())
	if err := c.store.Upsert(ctx, p); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	c.profiles[name] = p
	c.log.WithField("user", name).Info("registered")
	return nil
}

// Login signs a user in by exact credential match.
func (c *Controller) Login(ctx context.Context, name, credential string) error {
	name = strings.TrimSpace(name)
	if _, ok := c.profiles[name]; !ok {
		_ = c.Reload(ctx)
	}
	p, ok := c.profiles[name]
	if !ok {
		return ErrUnknownUser
	}
	if p.Credential != credential {
		return ErrBadCredential
	}
	signedIn := p.Clone()
	c.current = &signedIn
	c.question = nil
	if gained := c.engine.Regenerate(c.current, c.now()); gained > 0 {
		c.log.WithFields(logrus.Fields{"user": name, "stamina": gained}).Debug("stamina regenerated")
	}
	c.log.WithField("user", name).Info("logged in")
	return nil
}

// Logout drops the signed-in user.
func (c *Controller) Logout() {
	c.current = nil
	c.question = nil
}

// Next returns the active question, drawing a new one when none is pending.
func (c *Controller) Next() (*model.Question, error) {
	if c.current == nil {
		return nil, ErrNotLoggedIn
	}
	c.engine.Regenerate(c.current, c.now())
	if c.question != nil {
		return c.question, nil
	}
	tier := c.current.Topic(c.topic).Tier
	q, err := c.gen.Generate(c.entries, c.topic, tier)
	if err != nil {
		return nil, err
	}
	c.question = q
	return q, nil
}

// Submit scores an answer to the active question, applies progress and
// persists the profile. Rejected submissions leave everything unchanged.
func (c *Controller) Submit(ctx context.Context, answer string) (Outcome, error) {
	if c.current == nil {
		return Outcome{}, ErrNotLoggedIn
	}
	if c.question == nil {
		return Outcome{}, ErrNoQuestion
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Outcome{}, ErrEmptyAnswer
	}
	now := c.now()
	c.engine.Regenerate(c.current, now)
	if !c.engine.CanAnswer(c.current) {
		return Outcome{}, ErrNoStamina
	}

	q := *c.question
	c.engine.Charge(c.current, now)
	correct := answer == q.Answer
	if correct {
		c.engine.Refund(c.current)
	}
	out := Outcome{
		Correct:  correct,
		Given:    answer,
		Expected: q.Answer,
		Question: q,
		Unlocks:  c.engine.Record(c.current, c.topic, q.Entry.Phrase, answer, correct),
	}
	c.question = nil

	if err := c.store.Upsert(ctx, c.current.Clone()); err != nil {
		c.log.WithError(err).WithField("user", c.current.Name).Warn("progress not saved")
		out.SaveErr = err
	}
	c.profiles[c.current.Name] = c.current.Clone()
	return out, nil
}

// SwitchTopic changes the topic and discards the pending question.
func (c *Controller) SwitchTopic(topic string) error {
	if len(c.topics) > 0 && !contains(c.topics, topic) {
		return fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}
	if topic == c.topic {
		return nil
	}
	c.topic = topic
	c.question = nil
	return nil
}

// CycleTopic moves to the next topic in order and returns it.
func (c *Controller) CycleTopic() string {
	if len(c.topics) == 0 {
		return c.topic
	}
	idx := 0
	for i, t := range c.topics {
		if t == c.topic {
			idx = (i + 1) % len(c.topics)
			break
		}
	}
	_ = c.SwitchTopic(c.topics[idx])
	return c.topic
}

// Topic returns the current topic.
func (c *Controller) Topic() string {
	return c.topic
}

// Topics returns the selectable topics.
func (c *Controller) Topics() []string {
	return append([]string(nil), c.topics...)
}

// Profile returns a snapshot of the signed-in profile.
func (c *Controller) Profile() (model.Profile, bool) {
	if c.current == nil {
		return model.Profile{}, false
	}
	return c.current.Clone(), true
}

// Status returns the status bar snapshot after lazy regeneration.
func (c *Controller) Status() (Status, bool) {
	if c.current == nil {
		return Status{}, false
	}
	now := c.now()
	c.engine.Regenerate(c.current, now)
	tp := c.current.Topic(c.topic)
	return Status{
		Profile:   c.current.Clone(),
		Topic:     c.topic,
		Progress:  *tp,
		MaxTier:   c.engine.Rules().MaxTier(),
		Target:    c.engine.Rules().Rule(tp.Tier).Target,
		NextRegen: c.engine.NextRegen(c.current, now),
	}, true
}

// Lookup reloads and returns a profile by name.
func (c *Controller) Lookup(ctx context.Context, name string) (model.Profile, error) {
	err := c.Reload(ctx)
	p, ok := c.profiles[strings.TrimSpace(name)]
	if !ok {
		if err != nil {
			return model.Profile{}, err
		}
		return model.Profile{}, ErrUnknownUser
	}
	return p.Clone(), nil
}

// Leaderboard reloads profiles and ranks them by XP, then name.
func (c *Controller) Leaderboard(ctx context.Context) ([]model.Standing, error) {
	err := c.Reload(ctx)
	out := make([]model.Standing, 0, len(c.profiles))
	for _, p := range c.profiles {
		top := 0
		for _, tp := range p.Topics {
			if tp.Tier > top {
				top = tp.Tier
			}
		}
		out = append(out, model.Standing{Name: p.Name, XP: p.XP, Badges: len(p.Badges), TopTier: top})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].XP == out[j].XP {
			return out[i].Name < out[j].Name
		}
		return out[i].XP > out[j].XP
	})
	return out, err
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch {
		case fe.Field() == "Credential":
			msgs = append(msgs, "password must be 4 to 6 digits")
		case fe.Tag() == "required":
			msgs = append(msgs, "name is required")
		default:
			msgs = append(msgs, fmt.Sprintf("name must be at most %s characters", fe.Param()))
		}
	}
	return strings.Join(msgs, "; ")
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
