package render

import (
	"strconv"
	"strings"
	"text/template"
)

// SDKVersion is reported by the generated browser SDK.
const SDKVersion = "1.0.0"

// The embedding SDK is generated rather than checked in as a static asset so
// its scoring section is driven by the same constants as Score and the
// document adapter. Pages load it from /sdk/activities.js; elements marked
// with data-html-activity are discovered and rendered on page-ready.

const sdkTmpl = `/**
 * Activities embedding SDK v{{.Version}}
 * Renders activities inline or through an iframe pointed at the render endpoint.
 */
(function(window) {
  'use strict';

  var DEFAULT_API_BASE = {{.APIBaseJS}};

  var HTMLActivities = {
    version: '{{.Version}}',
    apiBase: DEFAULT_API_BASE,

    config: function(options) {
      if (options.apiBase) {
        this.apiBase = options.apiBase.replace(/\/$/, '');
      }
    },

    render: function(slug, containerId, options) {
      options = options || {};
      var container = typeof containerId === 'string'
        ? document.getElementById(containerId)
        : containerId;

      if (!container) {
        console.error('HTMLActivities: Container not found:', containerId);
        return;
      }

      container.innerHTML = this.getLoadingHTML();
      container.className = 'html-activity-container loading';

      var self = this;
      this.fetchActivity(slug)
        .then(function(activity) {
          self.renderActivity(activity, container, options);
        })
        .catch(function(error) {
          console.error('HTMLActivities: Failed to load activity:', error);
          container.innerHTML = self.getErrorHTML(error.message);
          container.className = 'html-activity-container error';
        });
    },

    renderIframe: function(slug, containerId, options) {
      options = options || {};
      var container = typeof containerId === 'string'
        ? document.getElementById(containerId)
        : containerId;

      if (!container) {
        console.error('HTMLActivities: Container not found:', containerId);
        return;
      }

      var iframe = document.createElement('iframe');
      iframe.src = this.apiBase + '/api/embed/' + slug + '/render';
      iframe.style.width = options.width || '100%';
      iframe.style.height = options.height || '600px';
      iframe.style.border = options.border || 'none';
      iframe.style.borderRadius = '8px';
      iframe.frameBorder = '0';
      iframe.setAttribute('allowfullscreen', '');

      container.innerHTML = '';
      container.appendChild(iframe);
      container.className = 'html-activity-container iframe';
    },

    fetchActivity: function(slug) {
      return fetch(this.apiBase + '/api/embed/' + slug)
        .then(function(response) {
          if (!response.ok) {
            throw new Error('Activity "' + slug + '" not found or not public');
          }
          return response.json();
        });
    },

    renderActivity: function(activity, container, options) {
      container.className = 'html-activity-container loaded';

      if (activity.contentType === 'quiz') {
        this.renderQuiz(activity, container, options);
      } else if (activity.contentType === 'text') {
        this.renderText(activity, container, options);
      } else {
        this.renderGeneric(activity, container, options);
      }
    },

    renderQuiz: function(activity, container, options) {
      var self = this;
      var questions = activity.contentData.questions || [];
      var settings = activity.contentData.settings || {};

      var html = this.headerHTML(activity) +
        '<div class="quiz-content">' +
        questions.map(function(question, qIndex) {
          return '<div class="question" data-question="' + qIndex + '">' +
            '<h3 class="question-text">' + self.escapeHtml(question.question) + '</h3>' +
            '<div class="options">' +
            question.options.map(function(option, oIndex) {
              return '<label class="option">' +
                '<input type="radio" name="question-' + qIndex + '" value="' + oIndex + '">' +
                '<span class="option-text">' + self.escapeHtml(option) + '</span>' +
                '</label>';
            }).join('') +
            '</div>' +
            (question.explanation
              ? '<div class="explanation" style="display: none;">' +
                '<p><strong>Explanation:</strong> ' + self.escapeHtml(question.explanation) + '</p></div>'
              : '') +
            '</div>';
        }).join('') +
        '</div>' +
        '<div class="controls">' +
        '<button class="btn btn-primary" onclick="HTMLActivities.submitQuiz(\'' + container.id + '\')">Submit Quiz</button>' +
        (settings.allowRetry
          ? '<button class="btn btn-secondary" onclick="HTMLActivities.resetQuiz(\'' + container.id + '\')" style="display: none;" id="retryBtn-' + container.id + '">Try Again</button>'
          : '') +
        '</div>' +
        '<div id="results-' + container.id + '" class="results" style="display: none;"></div>';

      container.innerHTML = html;
      this.sessions[container.id] = { activity: activity, submitted: false };
      this.applyStyles();
    },

    renderText: function(activity, container, options) {
      container.innerHTML = this.headerHTML(activity) +
        '<div class="text-content">' + (activity.contentData.content || '') + '</div>';
      this.applyStyles();
    },

    renderGeneric: function(activity, container, options) {
      container.innerHTML = this.headerHTML(activity) +
        '<div class="generic-content"><pre>' +
        this.escapeHtml(JSON.stringify(activity.contentData, null, 2)) +
        '</pre></div>';
      this.applyStyles();
    },

    headerHTML: function(activity) {
      return '<div class="activity-header">' +
        '<h2 class="activity-title">' + this.escapeHtml(activity.title) + '</h2>' +
        (activity.description
          ? '<p class="activity-description">' + this.escapeHtml(activity.description) + '</p>'
          : '') +
        '</div>';
    },

    // Render sessions keyed by container id, owned by the SDK.
    sessions: {},

    submitQuiz: function(containerId) {
      var container = document.getElementById(containerId);
      var session = this.sessions[containerId];
      if (!container || !session || session.submitted) return;

      var questions = session.activity.contentData.questions || [];
      var settings = session.activity.contentData.settings || {};

      var score = 0;
      var total = questions.length;

      questions.forEach(function(question, qIndex) {
        var selectedOption = container.querySelector('input[name="question-' + qIndex + '"]:checked');
        var questionElement = container.querySelector('[data-question="' + qIndex + '"]');
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
      var resultsDiv = container.querySelector('#results-' + containerId);

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

      container.querySelectorAll('input[type="radio"]').forEach(function(input) { input.disabled = true; });
      container.querySelector('.btn-primary').style.display = 'none';

      if (settings.allowRetry) {
        var retryBtn = container.querySelector('#retryBtn-' + containerId);
        if (retryBtn) retryBtn.style.display = 'inline-block';
      }

      session.submitted = true;
    },

    resetQuiz: function(containerId) {
      var container = document.getElementById(containerId);
      var session = this.sessions[containerId];
      if (!container || !session) return;

      session.submitted = false;
      container.querySelectorAll('input[type="radio"]').forEach(function(input) {
        input.disabled = false;
        input.checked = false;
      });
      container.querySelectorAll('.option').forEach(function(option) {
        option.classList.remove('correct', 'incorrect');
      });
      container.querySelectorAll('.explanation').forEach(function(exp) { exp.style.display = 'none'; });
      container.querySelector('#results-' + containerId).style.display = 'none';
      container.querySelector('.btn-primary').style.display = 'inline-block';
      var retryBtn = container.querySelector('#retryBtn-' + containerId);
      if (retryBtn) retryBtn.style.display = 'none';
    },

    applyStyles: function() {
      if (document.getElementById('html-activities-styles')) return;

      var styles = document.createElement('style');
      styles.id = 'html-activities-styles';
      styles.textContent = this.getDefaultCSS();
      document.head.appendChild(styles);
    },

    getLoadingHTML: function() {
      return '<div class="loading-state"><div class="spinner"></div><p>Loading activity...</p></div>';
    },

    getErrorHTML: function(message) {
      return '<div class="error-state"><h3>Error Loading Activity</h3><p>' +
        this.escapeHtml(message) + '</p></div>';
    },

    escapeHtml: function(text) {
      var map = {
        '&': '&amp;',
        '<': '&lt;',
        '>': '&gt;',
        '"': '&quot;',
        "'": '&#039;'
      };
      return text.replace(/[&<>"']/g, function(m) { return map[m]; });
    },

    getDefaultCSS: function() {
      return '' +
        '.html-activity-container{font-family:"Segoe UI",Tahoma,Geneva,Verdana,sans-serif;max-width:800px;margin:0 auto;padding:20px;line-height:1.6;background:#f8f9fa;border-radius:10px}' +
        '.html-activity-container .activity-header{text-align:center;margin-bottom:30px}' +
        '.html-activity-container .activity-title{color:#333;margin-bottom:10px;font-size:2rem}' +
        '.html-activity-container .activity-description{color:#666;font-size:1.1rem}' +
        '.html-activity-container .question{margin-bottom:30px;padding:20px;border:1px solid #e9ecef;border-radius:8px;background:white}' +
        '.html-activity-container .question-text{color:#495057;margin-bottom:15px;font-size:1.2rem}' +
        '.html-activity-container .options{display:flex;flex-direction:column;gap:10px}' +
        '.html-activity-container .option{display:flex;align-items:center;padding:10px;border:1px solid #dee2e6;border-radius:5px;cursor:pointer;transition:all .3s ease;background:#fafafa}' +
        '.html-activity-container .option:hover{background:#e9ecef;border-color:#adb5bd}' +
        '.html-activity-container .option input[type=radio]{margin-right:10px}' +
        '.html-activity-container .option-text{flex:1}' +
        '.html-activity-container .explanation{margin-top:15px;padding:15px;background:#d1ecf1;border:1px solid #bee5eb;border-radius:5px}' +
        '.html-activity-container .controls{text-align:center;margin-top:30px}' +
        '.html-activity-container .btn{background:#007bff;color:white;border:none;padding:12px 24px;border-radius:5px;cursor:pointer;font-size:1rem;margin:0 10px;transition:background .3s ease}' +
        '.html-activity-container .btn:hover{background:#0056b3}' +
        '.html-activity-container .btn:disabled{background:#6c757d;cursor:not-allowed}' +
        '.html-activity-container .btn-secondary{background:#6c757d}' +
        '.html-activity-container .btn-secondary:hover{background:#545b62}' +
        '.html-activity-container .results{margin-top:20px;padding:20px;border-radius:8px;text-align:center;font-size:1.1rem}' +
        '.html-activity-container .results.good{background:#d4edda;border:1px solid #c3e6cb;color:#155724}' +
        '.html-activity-container .results.average{background:#fff3cd;border:1px solid #ffeaa7;color:#856404}' +
        '.html-activity-container .results.poor{background:#f8d7da;border:1px solid #f5c6cb;color:#721c24}' +
        '.html-activity-container .correct{background:#d4edda!important;border-color:#c3e6cb!important}' +
        '.html-activity-container .incorrect{background:#f8d7da!important;border-color:#f5c6cb!important}' +
        '.html-activity-container .loading-state,.html-activity-container .error-state{text-align:center;padding:40px 20px}' +
        '.html-activity-container .spinner{width:40px;height:40px;border:4px solid #f3f3f3;border-left:4px solid #007bff;border-radius:50%;animation:ha-spin 1s linear infinite;margin:0 auto 20px}' +
        '@keyframes ha-spin{0%{transform:rotate(0)}100%{transform:rotate(360deg)}}' +
        '.html-activity-container .text-content{background:white;padding:30px;border-radius:8px;border:1px solid #e9ecef}' +
        '.html-activity-container .generic-content{background:white;padding:20px;border-radius:8px;border:1px solid #e9ecef}' +
        '.html-activity-container .generic-content pre{background:#f8f9fa;padding:15px;border-radius:5px;overflow-x:auto}';
    }
  };

  document.addEventListener('DOMContentLoaded', function() {
    var autoElements = document.querySelectorAll('[data-html-activity]');
    autoElements.forEach(function(element) {
      var slug = element.getAttribute('data-html-activity');
      var mode = element.getAttribute('data-mode') || 'embed';
      var options = {};

      if (element.getAttribute('data-width')) {
        options.width = element.getAttribute('data-width');
      }
      if (element.getAttribute('data-height')) {
        options.height = element.getAttribute('data-height');
      }

      if (mode === 'iframe') {
        HTMLActivities.renderIframe(slug, element, options);
      } else {
        HTMLActivities.render(slug, element, options);
      }
    });
  });

  window.HTMLActivities = HTMLActivities;

})(window);
`

var sdkScript = template.Must(template.New("sdk").Parse(sdkTmpl))

type sdkData struct {
	Version   string
	APIBaseJS string

	GoodMin        int
	AverageMin     int
	GoodBand       Band
	AverageBand    Band
	PoorBand       Band
	GoodMessage    string
	AverageMessage string
	PoorMessage    string
}

// SDK generates the embedding script. apiBase may be empty, in which case the
// script defaults to the embedding page's origin.
func SDK(apiBase string) string {
	apiBaseJS := "window.location.origin"
	if apiBase != "" {
		apiBaseJS = strconv.Quote(strings.TrimRight(apiBase, "/"))
	}

	var out strings.Builder
	_ = sdkScript.Execute(&out, sdkData{
		Version:        SDKVersion,
		APIBaseJS:      apiBaseJS,
		GoodMin:        bandGoodMin,
		AverageMin:     bandAverageMin,
		GoodBand:       BandGood,
		AverageBand:    BandAverage,
		PoorBand:       BandPoor,
		GoodMessage:    messageGood,
		AverageMessage: messageAverage,
		PoorMessage:    messagePoor,
	})
	return out.String()
}
