package render

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"activities-be/internal/domain"
	apperrors "activities-be/pkg/errors"
	"activities-be/pkg/logger"
)

// State is the lifecycle of one embedded activity instance.
type State string

const (
	StateLoading   State = "loading"
	StateLoaded    State = "loaded"
	StateSubmitted State = "submitted"
	StateError     State = "error"
)

// ErrContainerMissing means the target element for an embed does not exist.
// It aborts that instance only.
var ErrContainerMissing = errors.New("render: container missing")

// Fetcher resolves an activity definition for the client adapter. NotFound
// must be reported as a not_found application error so the adapter can render
// the slug-bearing message instead of the generic failure.
type Fetcher interface {
	FetchActivity(ctx context.Context, slug string) (*domain.Activity, error)
}

// Session is the ephemeral per-instance interaction state. It is owned by the
// Embed that created it and never shared across containers.
type Session struct {
	ID         string
	Selections map[int]int
	Submitted  bool
}

func newSession() *Session {
	return &Session{
		ID:         uuid.NewString(),
		Selections: make(map[int]int),
	}
}

// Embed renders one activity into a host container and drives its
// interaction lifecycle: loading -> loaded -> (submitted | retried), or
// loading -> error. It uses the same Dispatch and Score as the document
// adapter; only the output medium differs.
type Embed struct {
	fetcher     Fetcher
	log         *logger.Logger
	slug        string
	container   *html.Node
	containerID string

	state    State
	activity *domain.Activity
	variant  Variant
	session  *Session
	result   *ScoreResult
}

// NewEmbed prepares an embed instance for a container. The container must
// exist; a missing container aborts this instance without touching any other.
func NewEmbed(fetcher Fetcher, log *logger.Logger, slug string, container *html.Node) (*Embed, error) {
	if container == nil {
		return nil, ErrContainerMissing
	}

	session := newSession()
	containerID, ok := getAttr(container, "id")
	if !ok || containerID == "" {
		containerID = "activity-" + session.ID
		setAttr(container, "id", containerID)
	}

	return &Embed{
		fetcher:     fetcher,
		log:         log,
		slug:        slug,
		container:   container,
		containerID: containerID,
		state:       StateLoading,
		session:     session,
	}, nil
}

// State returns the instance's current lifecycle state.
func (e *Embed) State() State {
	return e.state
}

// Result returns the grading outcome of the last submission, nil before
// submission and after a retry.
func (e *Embed) Result() *ScoreResult {
	return e.result
}

// ContainerID returns the host element id results and retry controls are
// keyed by.
func (e *Embed) ContainerID() string {
	return e.containerID
}

// HTML serializes the container's current contents.
func (e *Embed) HTML() string {
	return Serialize(e.container)
}

// Render resolves the activity and builds the interactive structure in the
// container. Resolution failures are terminal for this render attempt and
// surface as fixed messages in the container, never as returned errors.
func (e *Embed) Render(ctx context.Context) {
	e.state = StateLoading
	e.setContainerClass("loading")
	removeChildren(e.container)
	e.renderLoading()

	act, err := e.fetcher.FetchActivity(ctx, e.slug)
	if err != nil {
		removeChildren(e.container)
		e.setContainerClass("error")
		e.state = StateError
		if apperrors.IsNotFound(err) {
			e.renderError(fmt.Sprintf("Activity %q not found or not public", e.slug))
		} else {
			e.log.WithError(err).WithField("slug", e.slug).Error("Failed to load activity")
			e.renderError("There was an error loading this activity. Please try again later.")
		}
		return
	}

	e.activity = act
	e.variant = Dispatch(act)

	removeChildren(e.container)
	e.setContainerClass("loaded")

	switch e.variant.Type {
	case domain.ContentTypeQuiz:
		e.renderQuiz()
	case domain.ContentTypeText:
		e.renderText()
	default:
		e.renderGeneric()
	}

	e.state = StateLoaded
}

// Select records an answer for a question and checks the matching radio
// input. Selections after submission are no-ops; inputs are disabled.
func (e *Embed) Select(question, option int) error {
	if e.state != StateLoaded || e.variant.Type != domain.ContentTypeQuiz {
		return nil
	}
	questions := e.variant.Quiz.Questions
	if question < 0 || question >= len(questions) {
		return fmt.Errorf("question index %d out of range", question)
	}
	if option < 0 || option >= len(questions[question].Options) {
		return fmt.Errorf("option index %d out of range for question %d", option, question)
	}

	e.session.Selections[question] = option

	questionEl := findByAttr(e.container, "data-question", strconv.Itoa(question))
	if questionEl == nil {
		return fmt.Errorf("question element %d missing", question)
	}
	for i, opt := range optionNodes(questionEl) {
		input := findByClass(opt, "option-input")
		if input == nil {
			continue
		}
		if i == option {
			setAttr(input, "checked", "")
		} else {
			removeAttr(input, "checked")
		}
	}
	return nil
}

// Submit grades the current selections exactly once per session. Repeat
// submissions are idempotent no-ops until Reset.
func (e *Embed) Submit() {
	if e.state != StateLoaded || e.variant.Type != domain.ContentTypeQuiz || e.session.Submitted {
		return
	}

	quiz := e.variant.Quiz
	res := Score(quiz.Questions, e.session.Selections)

	for i, qr := range res.PerQuestion {
		questionEl := findByAttr(e.container, "data-question", strconv.Itoa(i))
		if questionEl == nil {
			continue
		}
		opts := optionNodes(questionEl)
		if qr.Selected != NoSelection {
			if qr.Correct {
				addClass(opts[qr.Selected], "correct")
			} else {
				addClass(opts[qr.Selected], "incorrect")
				addClass(opts[qr.CorrectOption], "correct")
			}
		} else {
			addClass(opts[qr.CorrectOption], "correct")
		}

		if quiz.Settings.ShowExplanations && quiz.Questions[i].Explanation != "" {
			if exp := findByClass(questionEl, "explanation"); exp != nil {
				setDisplay(exp, "block")
			}
		}
	}

	e.renderResults(res)

	for _, input := range findAllByClass(e.container, "option-input") {
		setAttr(input, "disabled", "")
	}
	if submit := findByClass(e.container, "btn-primary"); submit != nil {
		setDisplay(submit, "none")
	}
	if quiz.Settings.AllowRetry {
		if retry := findByAttr(e.container, "id", "retryBtn-"+e.containerID); retry != nil {
			setDisplay(retry, "inline-block")
		}
	}

	e.session.Submitted = true
	e.result = &res
	e.state = StateSubmitted
}

// Reset clears all computed state and re-arms the interaction. Only reachable
// after submission and only when the quiz allows retry.
func (e *Embed) Reset() {
	if e.state != StateSubmitted || e.variant.Type != domain.ContentTypeQuiz || !e.variant.Quiz.Settings.AllowRetry {
		return
	}

	for _, input := range findAllByClass(e.container, "option-input") {
		removeAttr(input, "disabled")
		removeAttr(input, "checked")
	}
	for _, opt := range findAllByClass(e.container, "option") {
		removeClass(opt, "correct", "incorrect")
	}
	for _, exp := range findAllByClass(e.container, "explanation") {
		setDisplay(exp, "none")
	}
	if results := findByAttr(e.container, "id", "results-"+e.containerID); results != nil {
		removeChildren(results)
		setAttr(results, "class", "results")
		setDisplay(results, "none")
	}
	if submit := findByClass(e.container, "btn-primary"); submit != nil {
		setDisplay(submit, "inline-block")
	}
	if retry := findByAttr(e.container, "id", "retryBtn-"+e.containerID); retry != nil {
		setDisplay(retry, "none")
	}

	e.session.Selections = make(map[int]int)
	e.session.Submitted = false
	e.result = nil
	e.state = StateLoaded
}

func (e *Embed) setContainerClass(state string) {
	setAttr(e.container, "class", "html-activity-container "+state)
}

func (e *Embed) renderLoading() {
	loading := newElement("div", attr("class", "loading-state"))
	spinner := newElement("div", attr("class", "spinner"))
	loading.AppendChild(spinner)
	p := newElement("p")
	appendText(p, "Loading activity...")
	loading.AppendChild(p)
	e.container.AppendChild(loading)
}

func (e *Embed) renderError(message string) {
	errState := newElement("div", attr("class", "error-state"))
	h3 := newElement("h3")
	appendText(h3, "Error Loading Activity")
	errState.AppendChild(h3)
	p := newElement("p")
	appendText(p, message)
	errState.AppendChild(p)
	e.container.AppendChild(errState)
}

func (e *Embed) renderHeader() {
	header := newElement("div", attr("class", "activity-header"))
	title := newElement("h2", attr("class", "activity-title"))
	appendText(title, e.activity.Title)
	header.AppendChild(title)
	if e.activity.Description != "" {
		desc := newElement("p", attr("class", "activity-description"))
		appendText(desc, e.activity.Description)
		header.AppendChild(desc)
	}
	e.container.AppendChild(header)
}

func (e *Embed) renderQuiz() {
	e.renderHeader()
	quiz := e.variant.Quiz

	content := newElement("div", attr("class", "quiz-content"))
	for qi, q := range quiz.Questions {
		questionEl := newElement("div",
			attr("class", "question"),
			attr("data-question", strconv.Itoa(qi)))

		prompt := newElement("h3", attr("class", "question-text"))
		appendText(prompt, q.Question)
		questionEl.AppendChild(prompt)

		options := newElement("div", attr("class", "options"))
		for oi, opt := range q.Options {
			label := newElement("label", attr("class", "option"))
			input := newElement("input",
				attr("class", "option-input"),
				attr("type", "radio"),
				attr("name", fmt.Sprintf("question-%d", qi)),
				attr("value", strconv.Itoa(oi)))
			label.AppendChild(input)
			span := newElement("span", attr("class", "option-text"))
			appendText(span, opt)
			label.AppendChild(span)
			options.AppendChild(label)
		}
		questionEl.AppendChild(options)

		if q.Explanation != "" {
			exp := newElement("div", attr("class", "explanation"))
			setDisplay(exp, "none")
			p := newElement("p")
			strong := newElement("strong")
			appendText(strong, "Explanation:")
			p.AppendChild(strong)
			appendText(p, " "+q.Explanation)
			exp.AppendChild(p)
			questionEl.AppendChild(exp)
		}
		content.AppendChild(questionEl)
	}
	e.container.AppendChild(content)

	controls := newElement("div", attr("class", "controls"))
	submit := newElement("button", attr("class", "btn btn-primary"))
	appendText(submit, "Submit Quiz")
	controls.AppendChild(submit)
	if quiz.Settings.AllowRetry {
		retry := newElement("button",
			attr("class", "btn btn-secondary"),
			attr("id", "retryBtn-"+e.containerID))
		setDisplay(retry, "none")
		appendText(retry, "Try Again")
		controls.AppendChild(retry)
	}
	e.container.AppendChild(controls)

	results := newElement("div",
		attr("id", "results-"+e.containerID),
		attr("class", "results"))
	setDisplay(results, "none")
	e.container.AppendChild(results)
}

func (e *Embed) renderText() {
	e.renderHeader()
	content := newElement("div", attr("class", "text-content"))
	// Author-trusted rich content, inserted verbatim by contract.
	if err := e.appendTrusted(content, e.variant.Text.Content); err != nil {
		e.log.WithError(err).WithField("slug", e.slug).Warn("Failed to parse text content")
	}
	e.container.AppendChild(content)
}

func (e *Embed) appendTrusted(parent *html.Node, markup string) error {
	return appendFragment(parent, markup)
}

func (e *Embed) renderGeneric() {
	e.renderHeader()
	content := newElement("div", attr("class", "generic-content"))
	pre := newElement("pre")
	appendText(pre, genericDump(e.activity.ContentData))
	content.AppendChild(pre)
	e.container.AppendChild(content)
}

func (e *Embed) renderResults(res ScoreResult) {
	results := findByAttr(e.container, "id", "results-"+e.containerID)
	if results == nil {
		return
	}
	removeChildren(results)

	h3 := newElement("h3")
	appendText(h3, "Quiz Results")
	results.AppendChild(h3)

	scoreLine := newElement("p")
	appendText(scoreLine, "You scored ")
	strong := newElement("strong")
	appendText(strong, fmt.Sprintf("%d/%d", res.CorrectCount, res.Total))
	scoreLine.AppendChild(strong)
	appendText(scoreLine, fmt.Sprintf(" (%d%%)", res.Percentage))
	results.AppendChild(scoreLine)

	message := newElement("p")
	appendText(message, res.Message)
	results.AppendChild(message)

	setAttr(results, "class", "results "+string(res.Band))
	setDisplay(results, "block")
}

// optionNodes returns the option labels of a question element in order.
func optionNodes(questionEl *html.Node) []*html.Node {
	return findAllByClass(questionEl, "option")
}
