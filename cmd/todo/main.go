package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/taskmindhq/taskmind/taskmind/todo"
)

type app struct {
	manager *todo.Manager
	in      *bufio.Reader
}

func main() {
	a := &app{manager: todo.NewManager(), in: bufio.NewReader(os.Stdin)}
	a.run()
}

func (a *app) run() {
	fmt.Println("=== Todo Console ===")

	for {
		a.printSummary()
		fmt.Println()
		fmt.Println("1. Add task")
		fmt.Println("2. List tasks")
		fmt.Println("3. Update task")
		fmt.Println("4. Delete task")
		fmt.Println("5. Toggle task status")
		fmt.Println("6. Exit")

		choice, err := a.promptInt("Choice: ")
		if err != nil {
			fmt.Println("Invalid choice. Please enter a number between 1-6.")
			continue
		}

		switch choice {
		case 1:
			a.addTask()
		case 2:
			a.listTasks()
		case 3:
			a.updateTask()
		case 4:
			a.deleteTask()
		case 5:
			a.toggleTask()
		case 6:
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid choice. Please enter a number between 1-6.")
		}
	}
}

func (a *app) printSummary() {
	tasks := a.manager.ListTasks()
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	fmt.Printf("\n%d task(s), %d completed\n", len(tasks), done)
}

func (a *app) addTask() {
	title := a.prompt("Title: ")
	if strings.TrimSpace(title) == "" {
		fmt.Println("Title cannot be empty.")
		return
	}
	description := a.prompt("Description (optional): ")
	id := a.manager.AddTask(strings.TrimSpace(title), strings.TrimSpace(description))
	fmt.Printf("Task added successfully with ID: %d\n", id)
}

func (a *app) listTasks() {
	tasks := a.manager.ListTasks()
	if len(tasks) == 0 {
		fmt.Println("No tasks yet.")
		return
	}
	for _, t := range tasks {
		status := "[ ]"
		if t.Completed {
			status = "[x]"
		}
		line := fmt.Sprintf("%s %d: %s", status, t.ID, t.Title)
		if t.Description != "" {
			line += " - " + t.Description
		}
		fmt.Println(line)
	}
}

func (a *app) updateTask() {
	id, err := a.promptInt("Task ID: ")
	if err != nil {
		fmt.Println("Invalid task ID.")
		return
	}

	var title, description *string
	if raw := strings.TrimSpace(a.prompt("New title (blank to keep): ")); raw != "" {
		title = &raw
	}
	if raw := strings.TrimSpace(a.prompt("New description (blank to keep): ")); raw != "" {
		description = &raw
	}

	if a.manager.UpdateTask(id, title, description) {
		fmt.Println("Task updated successfully.")
	} else {
		fmt.Printf("Task %d not found.\n", id)
	}
}

func (a *app) deleteTask() {
	id, err := a.promptInt("Task ID: ")
	if err != nil {
		fmt.Println("Invalid task ID.")
		return
	}
	if a.manager.DeleteTask(id) {
		fmt.Println("Task deleted successfully.")
	} else {
		fmt.Printf("Task %d not found.\n", id)
	}
}

func (a *app) toggleTask() {
	id, err := a.promptInt("Task ID: ")
	if err != nil {
		fmt.Println("Invalid task ID.")
		return
	}
	if a.manager.ToggleTaskStatus(id) {
		fmt.Println("Task status toggled.")
	} else {
		fmt.Printf("Task %d not found.\n", id)
	}
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	line, err := a.in.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimRight(line, "\r\n")
}

func (a *app) promptInt(label string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(a.prompt(label)))
}
