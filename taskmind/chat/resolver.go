package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
	"github.com/taskmindhq/taskmind/taskmind/chat/tools"
)

// Reply is the outcome of one resolver turn.
type Reply struct {
	Text      string
	ToolCalls []ports.ToolCallRecord
}

// Resolver answers chat messages by matching a fixed, ordered set of intent
// rules against the lowercased message. No model is involved; it is the
// offline fallback for the conversational surface. Matching is substring
// based on purpose, so e.g. "this" triggers the greeting rule via "hi".
type Resolver struct {
	tasks  ports.TaskStore
	logger zerolog.Logger
	rules  []intentRule
}

// intentRule pairs a predicate with its handler. Rules are evaluated strictly
// in slice order; the first match wins.
type intentRule struct {
	name   string
	match  func(msg string) bool
	handle func(ctx context.Context, ts *tools.Toolset, msg string) Reply
}

func NewResolver(tasks ports.TaskStore, logger zerolog.Logger) *Resolver {
	r := &Resolver{tasks: tasks, logger: logger}
	r.rules = r.buildRules()
	return r
}

var digitsRe = regexp.MustCompile(`\d+`)

const greetingReply = `👋 Hey there! I'm your AI task assistant, and I'm excited to help you stay organized!

I understand natural conversation, so just talk to me like you would a friend:

**Quick Examples:**
• "I need to buy groceries" → I'll create the task
• "What do I need to do today?" → I'll show your list
• "I finished the shopping" → I'll mark it complete
• "How am I doing?" → I'll show your progress

No need for rigid commands - just tell me what's on your mind! What can I help you with today? 😊`

const helpReply = `🤖 I'm your AI task assistant! I understand natural conversation. Here's what I can help with:

**Creating Tasks:**
• "I need to buy groceries"
• "Remind me to call mom"
• "Add a task to finish the report"

**Viewing Tasks:**
• "What are my tasks?"
• "Show me what I need to do"
• "What's on my list?"

**Updating Tasks:**
• "Update task ayesha to python"
• "Change task 1 to new name"
• "Rename task 2 to something else"

**Completing Tasks:**
• "I finished task 1"
• "I completed the groceries"
• "Done with task 2"

**Or use direct commands:**
• "create task: [title]"
• "list tasks"
• "update task [id] to [new title]"
• "complete task [id]"

Just talk to me naturally - I'll understand! 😊`

const fallbackReply = `🤖 I'm your AI task assistant! I understand natural conversation.

Try saying things like:
• "I need to buy groceries" (I'll create a task)
• "What do I need to do today?" (I'll show your tasks)
• "Update task ayesha to python" (I'll rename the task)
• "I finished task 1" (I'll mark it complete)
• "How am I doing?" (I'll show your progress)

Or just say "help" for more examples! 😊`

const createPromptReply = "I'd love to help you add a task! What do you need to do? Try saying:\n• 'I need to buy groceries'\n• 'Remind me to call mom'\n• 'Add a task to finish the report'"

const completePromptReply = "Which task did you finish? You can say:\n• 'I finished task 1'\n• 'Done with task 2'\n• Or describe the task: 'I finished the groceries'"

const updatePromptReply = "I'd be happy to help you update a task! You can say:\n• 'update task 1 to python'\n• 'change task ayesha to python'\n• 'rename task 2 to new name'\n\nWhat task would you like to update?"

// buildRules assembles the intent table. Order is behavior: listing comes
// before creation so "what do i need to do" does not read as a new task, and
// natural-language rules come before the stricter command forms.
func (r *Resolver) buildRules() []intentRule {
	canned := func(text string) func(context.Context, *tools.Toolset, string) Reply {
		return func(context.Context, *tools.Toolset, string) Reply { return Reply{Text: text} }
	}
	return []intentRule{
		{
			name: "greeting",
			match: func(msg string) bool {
				return containsAny(msg, "hello", "hi", "hey", "good morning", "good afternoon", "good evening", "howdy", "greetings", "what's up", "sup")
			},
			handle: canned(greetingReply),
		},
		{
			name: "list-natural",
			match: func(msg string) bool {
				return containsAny(msg,
					"what are my tasks", "show my tasks", "what do i need to do", "what's on my list",
					"my todo", "what tasks do i have", "what's next", "what should i do",
					"show me my list", "what's left to do", "what do i have to do", "show me what i need to do")
			},
			handle: func(ctx context.Context, ts *tools.Toolset, _ string) Reply { return r.listNatural(ctx, ts) },
		},
		{
			name: "create-natural",
			match: func(msg string) bool {
				return containsAny(msg,
					"i need to", "i have to", "i should", "i want to", "i must", "remind me to",
					"add a task", "new task", "create a task", "make a task", "add to my list", "put on my list")
			},
			handle: r.createNatural,
		},
		{
			name: "complete-natural",
			match: func(msg string) bool {
				return containsAny(msg,
					"i finished", "i completed", "i did", "i'm done with", "finished task",
					"completed task", "did task", "done with", "just finished", "just completed")
			},
			handle: r.completeNatural,
		},
		{
			name: "update-natural",
			match: func(msg string) bool {
				return containsAny(msg, "update task", "change task", "rename task", "modify task", "edit task")
			},
			handle: r.updateNatural,
		},
		{
			name: "create-command",
			match: func(msg string) bool {
				return strings.HasPrefix(msg, "create task:") || strings.HasPrefix(msg, "add task:") ||
					strings.HasPrefix(msg, "create task ") || strings.HasPrefix(msg, "add task ")
			},
			handle: r.createCommand,
		},
		{
			name: "list-command",
			match: func(msg string) bool {
				return strings.Contains(msg, "list tasks") || strings.Contains(msg, "show tasks")
			},
			handle: func(ctx context.Context, ts *tools.Toolset, _ string) Reply { return r.listCommand(ctx, ts) },
		},
		{
			name: "complete-command",
			match: func(msg string) bool {
				return strings.Contains(msg, "complete task") || strings.Contains(msg, "finish task") ||
					strings.Contains(msg, "done task") || strings.HasPrefix(msg, "done ")
			},
			handle: r.completeCommand,
		},
		{
			name: "help",
			match: func(msg string) bool {
				return containsAny(msg, "help", "what can you do", "commands", "how do i")
			},
			handle: canned(helpReply),
		},
		{
			name: "thanks",
			match: func(msg string) bool {
				return containsAny(msg, "thank", "thanks", "appreciate")
			},
			handle: canned("You're very welcome! I'm here whenever you need help managing your tasks. Is there anything else I can do for you? 😊"),
		},
		{
			name: "goodbye",
			match: func(msg string) bool {
				return containsAny(msg, "bye", "goodbye", "see you", "later", "exit")
			},
			handle: canned("Goodbye! Have a productive day, and remember - I'm here whenever you need help with your tasks! 👋"),
		},
		{
			name: "all-done",
			match: func(msg string) bool {
				return containsAny(msg, "all done", "finished everything", "completed all")
			},
			handle: func(ctx context.Context, ts *tools.Toolset, _ string) Reply { return r.allDone(ctx, ts) },
		},
		{
			name: "progress",
			match: func(msg string) bool {
				return containsAny(msg, "how am i doing", "my progress", "how many tasks")
			},
			handle: func(ctx context.Context, ts *tools.Toolset, _ string) Reply { return r.progress(ctx, ts) },
		},
	}
}

// RuleNames returns the evaluation order of the intent rules.
func (r *Resolver) RuleNames() []string {
	names := make([]string, 0, len(r.rules))
	for _, rule := range r.rules {
		names = append(names, rule.name)
	}
	return names
}

// Respond resolves one message for ownerID against the rule table; when no
// rule matches it falls back to a generic help reply.
func (r *Resolver) Respond(ctx context.Context, ownerID, message string) Reply {
	msg := strings.ToLower(strings.TrimSpace(message))
	ts := tools.NewToolset(r.tasks, ownerID, r.logger)

	for _, rule := range r.rules {
		if rule.match(msg) {
			return rule.handle(ctx, ts, msg)
		}
	}
	return Reply{Text: fallbackReply}
}

func (r *Resolver) listNatural(ctx context.Context, ts *tools.Toolset) Reply {
	result := ts.ListTasks(ctx, nil, 0, 0)
	if !result.Success {
		return Reply{Text: fmt.Sprintf("❌ I couldn't get your tasks right now: %s", result.Error.Message)}
	}
	list := result.Data.(tools.TaskListData)

	var text string
	switch {
	case len(list.Tasks) == 0:
		text = "📝 Your task list is completely empty! You're either super organized or ready to add something new. What would you like to work on? 🌟"
	default:
		var completed, incomplete []tools.TaskData
		for _, task := range list.Tasks {
			if task.Completed {
				completed = append(completed, task)
			} else {
				incomplete = append(incomplete, task)
			}
		}
		if len(incomplete) == 0 {
			text = fmt.Sprintf("🎉 Amazing! You've completed all %d tasks! You're absolutely crushing it today! Ready to add something new to conquer? 💪", len(completed))
		} else {
			var lines []string
			for _, task := range incomplete {
				lines = append(lines, fmt.Sprintf("⏳ %d: %s", task.ID, task.Title))
			}
			if len(completed) > 0 {
				text = "📝 Here's what's left on your plate:\n" + strings.Join(lines, "\n") +
					fmt.Sprintf("\n\n🎯 You've already completed %d task(s) - great progress!", len(completed))
			} else {
				text = "📝 Here's what you need to tackle:\n" + strings.Join(lines, "\n") +
					"\n\nYou've got this! Which one would you like to start with? 🚀"
			}
		}
	}
	return Reply{Text: text, ToolCalls: []ports.ToolCallRecord{record("list_tasks", nil, result)}}
}

// createPatterns is checked in order; longer variants come before their
// prefixes so "create a task to X" is not consumed by "create a task".
var createPatterns = []string{
	"i need to", "i have to", "i should", "i want to", "i must", "remind me to",
	"add a task to", "add a task",
	"create a task to", "create a task",
	"make a task to", "make a task",
	"new task:", "new task to", "new task",
	"add to my list:", "add to my list",
	"put on my list:", "put on my list",
}

func (r *Resolver) createNatural(ctx context.Context, ts *tools.Toolset, msg string) Reply {
	var title string
	for _, pattern := range createPatterns {
		if !strings.Contains(msg, pattern) {
			continue
		}
		switch {
		case strings.Contains(msg, ":") && strings.Contains(msg, pattern+":"):
			title = strings.TrimSpace(after(msg, pattern+":"))
		case strings.Contains(msg, " to ") && strings.Contains(msg, pattern+" to"):
			title = strings.TrimSpace(after(msg, pattern+" to"))
		default:
			title = strings.TrimSpace(after(msg, pattern))
		}
		break
	}
	title = strings.Trim(title, ".,!?")

	if title == "" {
		return Reply{Text: createPromptReply}
	}

	result := ts.AddTask(ctx, title, nil)
	if !result.Success {
		return Reply{Text: fmt.Sprintf("❌ Sorry, I couldn't create that task: %s", result.Error.Message)}
	}
	task := result.Data.(tools.TaskData)
	return Reply{
		Text:      fmt.Sprintf("✅ Perfect! I've added '%s' to your task list (ID: %d). You're all set! 🎯", task.Title, task.ID),
		ToolCalls: []ports.ToolCallRecord{record("add_task", map[string]any{"title": title}, result)},
	}
}

func (r *Resolver) completeNatural(ctx context.Context, ts *tools.Toolset, msg string) Reply {
	if numbers := digitsRe.FindString(msg); numbers != "" {
		taskID, _ := strconv.ParseInt(numbers, 10, 64)
		result := ts.CompleteTask(ctx, taskID, true)
		if !result.Success {
			return Reply{Text: fmt.Sprintf("❌ I couldn't mark that task as complete: %s", result.Error.Message)}
		}
		task := result.Data.(tools.TaskData)
		return Reply{
			Text:      fmt.Sprintf("🎉 Awesome! You completed '%s'. Great job! Keep up the momentum! 💪", task.Title),
			ToolCalls: []ports.ToolCallRecord{record("complete_task", map[string]any{"task_id": taskID, "completed": true}, result)},
		}
	}

	// No ID given; strip the completion phrase and match what remains against
	// incomplete task titles.
	taskText := msg
	for _, phrase := range []string{"i finished", "i completed", "i did", "i'm done with", "finished", "completed", "did", "done with", "just finished", "just completed"} {
		if strings.Contains(taskText, phrase) {
			taskText = strings.TrimSpace(strings.ReplaceAll(taskText, phrase, ""))
			break
		}
	}

	if taskText != "" {
		listResult := ts.ListTasks(ctx, nil, 0, 0)
		if listResult.Success {
			var matches []tools.TaskData
			for _, task := range listResult.Data.(tools.TaskListData).Tasks {
				if !task.Completed && strings.Contains(strings.ToLower(task.Title), taskText) {
					matches = append(matches, task)
				}
			}
			switch {
			case len(matches) == 1:
				result := ts.CompleteTask(ctx, matches[0].ID, true)
				if result.Success {
					return Reply{
						Text:      fmt.Sprintf("🎉 Perfect! I found and completed '%s' for you. Well done! 🌟", matches[0].Title),
						ToolCalls: []ports.ToolCallRecord{record("complete_task", map[string]any{"task_id": matches[0].ID, "completed": true}, result)},
					}
				}
			case len(matches) > 1:
				return Reply{Text: fmt.Sprintf("I found multiple tasks that might match. Which one did you complete?\n%s\n\nYou can say 'I finished task [number]'", matchList(matches))}
			}
		}
	}

	return Reply{Text: completePromptReply}
}

func (r *Resolver) updateNatural(ctx context.Context, ts *tools.Toolset, msg string) Reply {
	if !strings.Contains(msg, " to ") {
		return Reply{Text: updatePromptReply}
	}

	parts := strings.SplitN(msg, " to ", 2)
	left := strings.TrimSpace(parts[0])
	newTitle := strings.TrimSpace(parts[1])

	var taskID int64
	if numbers := digitsRe.FindString(left); numbers != "" {
		taskID, _ = strconv.ParseInt(numbers, 10, 64)
	} else {
		for _, phrase := range []string{"update task", "change task", "rename task", "modify task", "edit task"} {
			if !strings.Contains(left, phrase) {
				continue
			}
			taskName := strings.TrimSpace(strings.ReplaceAll(left, phrase, ""))
			if taskName != "" {
				listResult := ts.ListTasks(ctx, nil, 0, 0)
				if listResult.Success {
					all := listResult.Data.(tools.TaskListData).Tasks
					// Exact title match first, partial only as a fallback.
					var matches []tools.TaskData
					for _, task := range all {
						if strings.ToLower(task.Title) == taskName {
							matches = append(matches, task)
						}
					}
					if len(matches) == 0 {
						for _, task := range all {
							if strings.Contains(strings.ToLower(task.Title), taskName) {
								matches = append(matches, task)
							}
						}
					}
					if len(matches) == 1 {
						taskID = matches[0].ID
					} else if len(matches) > 1 {
						return Reply{Text: fmt.Sprintf("I found multiple tasks with that name. Which one do you want to update?\n%s\n\nYou can say 'update task [number] to %s'", matchList(matches), newTitle)}
					}
				}
			}
			break
		}
	}

	if taskID == 0 || newTitle == "" {
		return Reply{Text: updatePromptReply}
	}

	result := ts.UpdateTask(ctx, taskID, &newTitle, nil)
	if !result.Success {
		return Reply{Text: fmt.Sprintf("❌ I couldn't update that task: %s", result.Error.Message)}
	}
	task := result.Data.(tools.TaskData)
	return Reply{
		Text:      fmt.Sprintf("✅ Perfect! I've updated the task to '%s' (ID: %d). All set! 🎯", task.Title, task.ID),
		ToolCalls: []ports.ToolCallRecord{record("update_task", map[string]any{"task_id": taskID, "title": newTitle}, result)},
	}
}

func (r *Resolver) createCommand(ctx context.Context, ts *tools.Toolset, msg string) Reply {
	var title string
	if strings.Contains(msg, ":") {
		title = strings.TrimSpace(after(msg, ":"))
	} else if parts := strings.SplitN(msg, " ", 3); len(parts) >= 3 {
		title = strings.TrimSpace(parts[2])
	}

	if title == "" {
		return Reply{Text: "What task would you like me to add? You can say 'create task: Buy groceries' or just 'I need to buy groceries'"}
	}

	result := ts.AddTask(ctx, title, nil)
	if !result.Success {
		return Reply{Text: fmt.Sprintf("❌ Failed to create task: %s", result.Error.Message)}
	}
	task := result.Data.(tools.TaskData)
	return Reply{
		Text:      fmt.Sprintf("✅ Created task: '%s' (ID: %d)", task.Title, task.ID),
		ToolCalls: []ports.ToolCallRecord{record("add_task", map[string]any{"title": title}, result)},
	}
}

func (r *Resolver) listCommand(ctx context.Context, ts *tools.Toolset) Reply {
	result := ts.ListTasks(ctx, nil, 0, 0)
	if !result.Success {
		return Reply{Text: fmt.Sprintf("❌ Failed to list tasks: %s", result.Error.Message)}
	}
	list := result.Data.(tools.TaskListData)

	var text string
	if len(list.Tasks) == 0 {
		text = "📝 You have no tasks yet. Create one with 'create task: [title]'"
	} else {
		var lines []string
		for _, task := range list.Tasks {
			status := "⏳"
			if task.Completed {
				status = "✅"
			}
			lines = append(lines, fmt.Sprintf("%s %d: %s", status, task.ID, task.Title))
		}
		text = "📝 Your tasks:\n" + strings.Join(lines, "\n")
	}
	return Reply{Text: text, ToolCalls: []ports.ToolCallRecord{record("list_tasks", nil, result)}}
}

func (r *Resolver) completeCommand(ctx context.Context, ts *tools.Toolset, msg string) Reply {
	numbers := digitsRe.FindString(msg)
	if numbers == "" {
		return Reply{Text: "Please specify a task ID. Examples:\n• 'complete task 1'\n• 'finish task 2'\n• 'done 3'"}
	}
	taskID, _ := strconv.ParseInt(numbers, 10, 64)

	result := ts.CompleteTask(ctx, taskID, true)
	if !result.Success {
		return Reply{Text: fmt.Sprintf("❌ Failed to complete task: %s", result.Error.Message)}
	}
	task := result.Data.(tools.TaskData)
	return Reply{
		Text:      fmt.Sprintf("✅ Completed task: '%s'", task.Title),
		ToolCalls: []ports.ToolCallRecord{record("complete_task", map[string]any{"task_id": taskID, "completed": true}, result)},
	}
}

func (r *Resolver) allDone(ctx context.Context, ts *tools.Toolset) Reply {
	result := ts.ListTasks(ctx, nil, 0, 0)
	if !result.Success {
		return Reply{Text: fmt.Sprintf("❌ I couldn't get your tasks right now: %s", result.Error.Message)}
	}
	var incomplete int
	for _, task := range result.Data.(tools.TaskListData).Tasks {
		if !task.Completed {
			incomplete++
		}
	}
	if incomplete == 0 {
		return Reply{Text: "🎉 Congratulations! You've completed all your tasks! You're absolutely crushing it today! Want to add something new to your list?"}
	}
	return Reply{Text: fmt.Sprintf("Great progress! You still have %d task(s) to go. You're doing amazing - keep it up! 💪", incomplete)}
}

func (r *Resolver) progress(ctx context.Context, ts *tools.Toolset) Reply {
	result := ts.ListTasks(ctx, nil, 0, 0)
	if !result.Success {
		return Reply{Text: fmt.Sprintf("❌ I couldn't get your tasks right now: %s", result.Error.Message)}
	}
	list := result.Data.(tools.TaskListData)
	if len(list.Tasks) == 0 {
		return Reply{Text: "You don't have any tasks yet! Ready to add something to your list? 📝"}
	}

	var completed int
	for _, task := range list.Tasks {
		if task.Completed {
			completed++
		}
	}
	total := len(list.Tasks)

	switch {
	case completed == total:
		return Reply{Text: fmt.Sprintf("🎉 Perfect! You've completed all %d tasks! You're absolutely on fire today!", total)}
	case completed > 0:
		return Reply{Text: fmt.Sprintf("📊 You're making great progress! %d/%d tasks completed. %d to go - you've got this! 💪", completed, total, total-completed)}
	default:
		return Reply{Text: fmt.Sprintf("📝 You have %d tasks waiting for you. Ready to tackle them? Let's get started! 🚀", total)}
	}
}

func containsAny(msg string, phrases ...string) bool {
	for _, phrase := range phrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// after returns the portion of s following the first occurrence of sep, or ""
// when sep is absent.
func after(s, sep string) string {
	_, rest, found := strings.Cut(s, sep)
	if !found {
		return ""
	}
	return rest
}

func matchList(matches []tools.TaskData) string {
	var lines []string
	for _, task := range matches {
		lines = append(lines, fmt.Sprintf("• %d: %s", task.ID, task.Title))
	}
	return strings.Join(lines, "\n")
}

func record(tool string, params any, result ports.ToolResult) ports.ToolCallRecord {
	raw := json.RawMessage("{}")
	if params != nil {
		if data, err := json.Marshal(params); err == nil {
			raw = data
		}
	}
	return ports.ToolCallRecord{Tool: tool, Parameters: raw, Result: result}
}
