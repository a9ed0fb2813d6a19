// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/foodscout-tui/internal/format"
	"github.com/jeranaias/foodscout-tui/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports transcripts to a standalone HTML page with embedded
// CSS. Every string from the backend is escaped before markup is added.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a transcript to HTML.
func (e *HTMLExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil {
		return nil, ErrNilTranscript
	}
	title := format.Escape(t.Title())

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"zh-CN\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", title))
	sb.WriteString("    <meta name=\"generator\" content=\"foodscout\">\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", t.ExportedAt.Format(time.RFC3339)))
	sb.WriteString(exportCSS)
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", e.options.theme()))
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString(e.renderHeader(t))
	} else {
		sb.WriteString(fmt.Sprintf("        <header class=\"header\"><h1>%s</h1></header>\n", title))
	}

	sb.WriteString("        <main class=\"conversation\">\n")
	if len(t.Messages) == 0 {
		sb.WriteString("            <p class=\"empty\">暂无消息</p>\n")
	}
	for _, msg := range t.Messages {
		sb.WriteString(e.renderMessage(msg))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>导出自 <strong>食探</strong> · %s</p>\n", formatTimestamp(t.ExportedAt)))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString(exportScript)
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

func (e *HTMLExporter) FileExtension() string { return ".html" }

func (e *HTMLExporter) MimeType() string { return "text/html" }

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderHeader(t *Transcript) string {
	conv := t.Conversation
	var sb strings.Builder

	sb.WriteString("        <header class=\"header\">\n")
	star := ""
	if conv.Starred {
		star = " <span class=\"star\">★</span>"
	}
	sb.WriteString(fmt.Sprintf("            <h1>%s%s</h1>\n", format.Escape(t.Title()), star))
	sb.WriteString("            <div class=\"metadata\">\n")
	if !conv.CreatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>创建：</strong>%s</span>\n", formatTimestamp(conv.CreatedAt.Time)))
	}
	if !conv.LastUpdated.IsZero() {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>更新：</strong>%s</span>\n", formatTimestamp(conv.LastUpdated.Time)))
	}
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>消息：</strong>%d</span>\n", len(t.Messages)))
	sb.WriteString("                <button class=\"theme-toggle\" onclick=\"toggleTheme()\" title=\"切换主题\">◐</button>\n")
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")

	return sb.String()
}

func (e *HTMLExporter) renderMessage(msg model.Message) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("            <div class=\"message %s-message\">\n", msg.Role))
	sb.WriteString("                <div class=\"message-header\">\n")
	sb.WriteString(fmt.Sprintf("                    <span class=\"role-label\">%s</span>\n", msg.Role.DisplayName()))
	if e.options.IncludeTimestamps && msg.Timestamp != "" {
		sb.WriteString(fmt.Sprintf("                    <span class=\"timestamp\">%s</span>\n", format.Escape(msg.Timestamp)))
	}
	sb.WriteString("                </div>\n")
	sb.WriteString("                <div class=\"message-content\">")
	sb.WriteString(renderContent(msg))
	sb.WriteString("</div>\n")
	sb.WriteString("            </div>\n")

	return sb.String()
}

// renderContent formats bot replies with format.HTML. User text gets line
// breaks only.
func renderContent(msg model.Message) string {
	if msg.Role == model.RoleAI {
		return format.HTML(msg.Content)
	}
	text := strings.ReplaceAll(format.Escape(msg.Content), "\r\n", "\n")
	return "<p>" + strings.ReplaceAll(text, "\n", "<br>") + "</p>"
}

// =============================================================================
// EMBEDDED CSS AND SCRIPT
// =============================================================================

const exportCSS = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "PingFang SC", "Microsoft YaHei", "Segoe UI", sans-serif;
            --font-mono: "SF Mono", "Monaco", "Fira Code", monospace;
        }

        .light-theme {
            --bg-primary: #fff8f0;
            --bg-secondary: #ffffff;
            --bg-tertiary: #ffe8d1;
            --text-primary: #3a2a1d;
            --text-secondary: #6b5443;
            --text-muted: #a08b7a;
            --border-color: #f1d9c2;
            --user-bg: #fff1e3;
            --ai-bg: #ffffff;
            --accent: #ff7a2f;
            --accent-alt: #3aa676;
            --star: #f5b301;
        }

        .dark-theme {
            --bg-primary: #1d1a17;
            --bg-secondary: #27221e;
            --bg-tertiary: #352d26;
            --text-primary: #f3e6da;
            --text-secondary: #cdb9a7;
            --text-muted: #8c7a6b;
            --border-color: #4a3f35;
            --user-bg: #2f2822;
            --ai-bg: #27221e;
            --accent: #ff9a56;
            --accent-alt: #5cc493;
            --star: #ffd04d;
        }

        body {
            font-family: var(--font-sans);
            font-size: 16px;
            line-height: 1.7;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
        }

        .container {
            max-width: 860px;
            margin: 0 auto;
            background: var(--bg-secondary);
            border-radius: 12px;
            box-shadow: 0 4px 6px rgba(0, 0, 0, 0.08);
            overflow: hidden;
        }

        .header {
            padding: 28px 32px;
            background: var(--bg-tertiary);
            border-bottom: 2px solid var(--border-color);
        }

        .header h1 { font-size: 26px; margin-bottom: 12px; }
        .star { color: var(--star); }

        .metadata {
            display: flex;
            flex-wrap: wrap;
            gap: 16px;
            font-size: 14px;
            color: var(--text-secondary);
            align-items: center;
        }

        .theme-toggle {
            margin-left: auto;
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 6px;
            padding: 4px 10px;
            cursor: pointer;
            font-size: 16px;
            color: var(--text-primary);
        }

        .conversation { padding: 24px 32px; }
        .empty { color: var(--text-muted); text-align: center; }

        .message {
            margin-bottom: 20px;
            padding: 18px;
            border-radius: 8px;
            border-left: 4px solid transparent;
        }

        .user-message { background: var(--user-bg); border-left-color: var(--accent); }
        .ai-message { background: var(--ai-bg); border-left-color: var(--accent-alt); border: 1px solid var(--border-color); border-left-width: 4px; }

        .message-header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 10px;
            font-size: 14px;
        }

        .role-label { font-weight: 600; }
        .timestamp { color: var(--text-muted); font-family: var(--font-mono); font-size: 13px; }
        .message-content p { margin-bottom: 10px; }
        .message-content p:last-child { margin-bottom: 0; }
        .message-content strong { color: var(--accent); }

        .footer {
            padding: 18px 32px;
            text-align: center;
            font-size: 14px;
            color: var(--text-muted);
            border-top: 1px solid var(--border-color);
        }

        @media print {
            body { padding: 0; }
            .container { box-shadow: none; border-radius: 0; }
            .theme-toggle { display: none; }
            .message { page-break-inside: avoid; }
        }

        @media (max-width: 768px) {
            body { padding: 10px; }
            .header, .conversation, .footer { padding: 16px; }
        }
    </style>
`

const exportScript = `    <script>
        function toggleTheme() {
            const body = document.body;
            const next = body.classList.contains('dark-theme') ? 'light' : 'dark';
            body.classList.remove('dark-theme', 'light-theme');
            body.classList.add(next + '-theme');
            localStorage.setItem('foodscout-theme', next);
        }

        document.addEventListener('DOMContentLoaded', function() {
            const saved = localStorage.getItem('foodscout-theme');
            if (saved === 'dark' || saved === 'light') {
                document.body.classList.remove('dark-theme', 'light-theme');
                document.body.classList.add(saved + '-theme');
            }
        });
    </script>
`
