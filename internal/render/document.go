package render

import (
	"encoding/json"
	"strings"
	"text/template"

	"activities-be/internal/domain"
)

// The document adapter emits complete, self-contained HTML: inline styles,
// inline script, no further network calls after load. Quiz documents embed a
// script that executes the same grading algorithm as Score, generated from
// the same constants.
//
// text/template rather than html/template: the document IS the wire format.
// Escaping is applied explicitly per field because the text variant's content
// must pass through verbatim, and contextual auto-escaping would rewrite both
// it and the embedded script.

const baseCSS = `
    body {
      font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
      max-width: 800px;
      margin: 0 auto;
      padding: 20px;
      line-height: 1.6;
      background: #f8f9fa;
    }
    .activity-container {
      background: white;
      border-radius: 10px;
      padding: 30px;
      box-shadow: 0 2px 10px rgba(0,0,0,0.1);
    }
    .activity-title {
      color: #333;
      margin-bottom: 30px;
      text-align: center;
      font-size: 2rem;
    }`

const quizCSS = `
    .question {
      margin-bottom: 30px;
      padding: 20px;
      border: 1px solid #e9ecef;
      border-radius: 8px;
      background: #fafafa;
    }
    .question-text {
      color: #495057;
      margin-bottom: 15px;
      font-size: 1.2rem;
    }
    .options {
      display: flex;
      flex-direction: column;
      gap: 10px;
    }
    .option {
      display: flex;
      align-items: center;
      padding: 10px;
      border: 1px solid #dee2e6;
      border-radius: 5px;
      cursor: pointer;
      transition: all 0.3s ease;
      background: white;
    }
    .option:hover {
      background: #e9ecef;
      border-color: #adb5bd;
    }
    .option input[type="radio"] {
      margin-right: 10px;
    }
    .option-text {
      flex: 1;
    }
    .explanation {
      margin-top: 15px;
      padding: 15px;
      background: #d1ecf1;
      border: 1px solid #bee5eb;
      border-radius: 5px;
    }
    .controls {
      text-align: center;
      margin-top: 30px;
    }
    .btn {
      background: #007bff;
      color: white;
      border: none;
      padding: 12px 24px;
      border-radius: 5px;
      cursor: pointer;
      font-size: 1rem;
      margin: 0 10px;
      transition: background 0.3s ease;
    }
    .btn:hover {
      background: #0056b3;
    }
    .btn:disabled {
      background: #6c757d;
      cursor: not-allowed;
    }
    .results {
      margin-top: 20px;
      padding: 20px;
      border-radius: 8px;
      text-align: center;
      font-size: 1.1rem;
    }
    .results.good { background: #d4edda; border: 1px solid #c3e6cb; color: #155724; }
    .results.average { background: #fff3cd; border: 1px solid #ffeaa7; color: #856404; }
    .results.poor { background: #f8d7da; border: 1px solid #f5c6cb; color: #721c24; }
    .correct { background: #d4edda !important; border-color: #c3e6cb !important; }
    .incorrect { background: #f8d7da !important; border-color: #f5c6cb !important; }`

const quizDocumentTmpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{esc .Title}}</title>
  <style>{{.BaseCSS}}{{.QuizCSS}}
  </style>
</head>
<body>
  <div class="activity-container">
    <h1 class="activity-title">{{esc .Title}}</h1>
    <div class="quiz-content">
{{- range $qi, $q := .Questions}}
      <div class="question" data-question="{{$qi}}">
        <h3 class="question-text">{{esc $q.Question}}</h3>
        <div class="options">
{{- range $oi, $opt := $q.Options}}
          <label class="option">
            <input type="radio" name="question-{{$qi}}" value="{{$oi}}">
            <span class="option-text">{{esc $opt}}</span>
          </label>
{{- end}}
        </div>
{{- if $q.Explanation}}
        <div class="explanation" style="display: none;">
          <p><strong>Explanation:</strong> {{esc $q.Explanation}}</p>
        </div>
{{- end}}
      </div>
{{- end}}
    </div>
    <div class="controls">
      <button class="btn" id="submitBtn-{{.Slug}}" onclick="submitQuiz()">Submit Quiz</button>
{{- if .Settings.AllowRetry}}
      <button class="btn" onclick="resetQuiz()" style="display: none;" id="retryBtn-{{.Slug}}">Try Again</button>
{{- end}}
    </div>
    <div id="results-{{.Slug}}" class="results" style="display: none;"></div>
  </div>

  <script>
    var questions = {{.QuestionsJSON}};
    var settings = {{.SettingsJSON}};
    var submitted = false;

    function submitQuiz() {
      if (submitted) return;

      var score = 0;
      var total = questions.length;

      questions.forEach(function (question, qIndex) {
        var selectedOption = document.querySelector('input[name="question-' + qIndex + '"]:checked');
        var questionElement = document.querySelector('[data-question="' + qIndex + '"]');
        var options = questionElement.querySelectorAll('.option');

        if (selectedOption) {
          var selectedValue = parseInt(selectedOption.value);
          if (selectedValue === question.correct) {
            score++;
            options[selectedValue].classList.add('correct');
          } else {
            options[selectedValue].classList.add('incorrect');
            options[question.correct].classList.add('correct');
          }
        } else {
          options[question.correct].classList.add('correct');
        }

        if (settings.showExplanations && question.explanation) {
          var explanation = questionElement.querySelector('.explanation');
          if (explanation) explanation.style.display = 'block';
        }
      });

      var percentage = Math.round((score / total) * 100);
      var resultsDiv = document.getElementById('results-{{.Slug}}');

      var resultClass = '{{.PoorBand}}';
      var resultText = '{{.PoorMessage}}';

      if (percentage >= {{.GoodMin}}) {
        resultClass = '{{.GoodBand}}';
        resultText = '{{.GoodMessage}}';
      } else if (percentage >= {{.AverageMin}}) {
        resultClass = '{{.AverageBand}}';
        resultText = '{{.AverageMessage}}';
      }

      resultsDiv.innerHTML = '<h3>Quiz Results</h3>' +
        '<p>You scored <strong>' + score + '/' + total + '</strong> (' + percentage + '%)</p>' +
        '<p>' + resultText + '</p>';
      resultsDiv.className = 'results ' + resultClass;
      resultsDiv.style.display = 'block';

      document.querySelectorAll('input[type="radio"]').forEach(function (input) { input.disabled = true; });
      document.getElementById('submitBtn-{{.Slug}}').style.display = 'none';

      if (settings.allowRetry) {
        document.getElementById('retryBtn-{{.Slug}}').style.display = 'inline-block';
      }

      submitted = true;
    }

    function resetQuiz() {
      submitted = false;
      document.querySelectorAll('input[type="radio"]').forEach(function (input) {
        input.disabled = false;
        input.checked = false;
      });
      document.querySelectorAll('.option').forEach(function (option) {
        option.classList.remove('correct', 'incorrect');
      });
      document.querySelectorAll('.explanation').forEach(function (exp) { exp.style.display = 'none'; });
      document.getElementById('results-{{.Slug}}').style.display = 'none';
      document.getElementById('submitBtn-{{.Slug}}').style.display = 'inline-block';
      document.getElementById('retryBtn-{{.Slug}}').style.display = 'none';
    }
  </script>
</body>
</html>
`

const textDocumentTmpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{esc .Title}}</title>
  <style>{{.BaseCSS}}
    .content {
      color: #495057;
    }
  </style>
</head>
<body>
  <div class="activity-container">
    <h1 class="activity-title">{{esc .Title}}</h1>
    <div class="content">
      {{.Content}}
    </div>
  </div>
</body>
</html>
`

const genericDocumentTmpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{esc .Title}}</title>
  <style>{{.BaseCSS}}</style>
</head>
<body>
  <div class="activity-container">
    <h1>{{esc .Title}}</h1>
    <pre>{{esc .Dump}}</pre>
  </div>
</body>
</html>
`

var docFuncs = template.FuncMap{"esc": EscapeHTML}

var (
	quizDocument    = template.Must(template.New("quiz").Funcs(docFuncs).Parse(quizDocumentTmpl))
	textDocument    = template.Must(template.New("text").Funcs(docFuncs).Parse(textDocumentTmpl))
	genericDocument = template.Must(template.New("generic").Funcs(docFuncs).Parse(genericDocumentTmpl))
)

type quizDocumentData struct {
	Title         string
	Slug          string
	Questions     []domain.Question
	Settings      domain.QuizSettings
	QuestionsJSON string
	SettingsJSON  string
	BaseCSS       string
	QuizCSS       string

	GoodMin        int
	AverageMin     int
	GoodBand       Band
	AverageBand    Band
	PoorBand       Band
	GoodMessage    string
	AverageMessage string
	PoorMessage    string
}

// Document renders one activity as a self-contained HTML document. It never
// errors: invalid definitions already degraded to the generic variant via
// Dispatch.
func Document(act *domain.Activity) string {
	var out strings.Builder

	switch v := Dispatch(act); v.Type {
	case domain.ContentTypeQuiz:
		// json.Marshal HTML-escapes < > & inside strings, which keeps
		// author text from terminating the script element early.
		questionsJSON, _ := json.Marshal(v.Quiz.Questions)
		settingsJSON, _ := json.Marshal(v.Quiz.Settings)
		_ = quizDocument.Execute(&out, quizDocumentData{
			Title:          act.Title,
			Slug:           act.Slug,
			Questions:      v.Quiz.Questions,
			Settings:       v.Quiz.Settings,
			QuestionsJSON:  string(questionsJSON),
			SettingsJSON:   string(settingsJSON),
			BaseCSS:        baseCSS,
			QuizCSS:        quizCSS,
			GoodMin:        bandGoodMin,
			AverageMin:     bandAverageMin,
			GoodBand:       BandGood,
			AverageBand:    BandAverage,
			PoorBand:       BandPoor,
			GoodMessage:    messageGood,
			AverageMessage: messageAverage,
			PoorMessage:    messagePoor,
		})
	case domain.ContentTypeText:
		_ = textDocument.Execute(&out, struct {
			Title   string
			Content string
			BaseCSS string
		}{Title: act.Title, Content: v.Text.Content, BaseCSS: baseCSS})
	default:
		_ = genericDocument.Execute(&out, struct {
			Title   string
			Dump    string
			BaseCSS string
		}{Title: act.Title, Dump: genericDump(act.ContentData), BaseCSS: baseCSS})
	}

	return out.String()
}

// NotFoundDocument is the fixed terminal document for an unresolved slug.
func NotFoundDocument(slug string) string {
	var out strings.Builder
	out.WriteString(`<html>
  <body style="font-family: Arial, sans-serif; padding: 20px; text-align: center;">
    <h2>Activity Not Found</h2>
    <p>The activity "`)
	out.WriteString(EscapeHTML(slug))
	out.WriteString(`" could not be found or is not public.</p>
  </body>
</html>
`)
	return out.String()
}

// ErrorDocument is the fixed terminal document for an upstream resolution
// failure. It carries no internal error detail.
func ErrorDocument() string {
	return `<html>
  <body style="font-family: Arial, sans-serif; padding: 20px; text-align: center;">
    <h2>Error Loading Activity</h2>
    <p>There was an error loading this activity. Please try again later.</p>
  </body>
</html>
`
}
