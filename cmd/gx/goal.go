package main

import (
	"fmt"
	"strings"

	"github.com/amonks/guidex/dashboard"
	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/internal/editor"
	"github.com/amonks/guidex/internal/listflags"
	"github.com/amonks/guidex/metrics"
	"github.com/spf13/cobra"
)

var goalCmd = &cobra.Command{
	Use:     "goal",
	Aliases: []string{"goals"},
	Short:   "Manage goals and their milestones",
}

var goalCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new goal",
	Long: `Create a new goal.

By default, opens $EDITOR to edit a TOML representation of the goal
when running interactively and no create flags are provided. Use --no-edit
to skip the editor, or --edit to force opening the editor even when not interactive.`,
	Args: cobra.NoArgs,
	RunE: runGoalCreate,
}

var (
	goalCreateTitle      string
	goalCreateDeadline   string
	goalCreateCategory   string
	goalCreateMilestones []string
	goalCreateEdit       bool
	goalCreateNoEdit     bool
)

var goalEditCmd = &cobra.Command{
	Use:     "edit <id>",
	Aliases: []string{"update"},
	Short:   "Edit a goal",
	Args:    cobra.ExactArgs(1),
	RunE:    runGoalEdit,
}

var (
	goalEditTitle    string
	goalEditDeadline string
	goalEditCategory string
	goalEditStatus   string
	goalEditEdit     bool
	goalEditNoEdit   bool
)

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals",
	Args:  cobra.NoArgs,
	RunE:  runGoalList,
}

var (
	goalListJSON     bool
	goalListAll      bool
	goalListCategory string
)

var goalShowCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show goals with their milestones",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGoalShow,
}

var goalShowJSON bool

var goalDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more goals",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGoalDelete,
}

var goalToggleCmd = &cobra.Command{
	Use:   "toggle <goal-id> <task-id>",
	Short: "Toggle a milestone's completion",
	Args:  cobra.ExactArgs(2),
	RunE:  runGoalToggle,
}

var goalMilestoneCmd = &cobra.Command{
	Use:   "milestone <goal-id> <title>",
	Short: "Add a milestone to a goal",
	Args:  cobra.ExactArgs(2),
	RunE:  runGoalMilestone,
}

func init() {
	rootCmd.AddCommand(goalCmd)
	goalCmd.AddCommand(goalCreateCmd, goalEditCmd, goalListCmd, goalShowCmd, goalDeleteCmd, goalToggleCmd, goalMilestoneCmd)
	addDeadlineFlagAliases(goalCreateCmd, goalEditCmd)

	goalCreateCmd.Flags().StringVar(&goalCreateTitle, "title", "", "Goal title")
	goalCreateCmd.Flags().StringVar(&goalCreateDeadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	goalCreateCmd.Flags().StringVarP(&goalCreateCategory, "category", "c", "", "Category")
	goalCreateCmd.Flags().StringArrayVarP(&goalCreateMilestones, "milestone", "m", nil, "Initial milestone (repeatable)")
	goalCreateCmd.Flags().BoolVarP(&goalCreateEdit, "edit", "e", false, "Open $EDITOR (default if interactive and no create flags)")
	goalCreateCmd.Flags().BoolVar(&goalCreateNoEdit, "no-edit", false, "Do not open $EDITOR")

	goalEditCmd.Flags().StringVar(&goalEditTitle, "title", "", "New title")
	goalEditCmd.Flags().StringVar(&goalEditDeadline, "deadline", "", "New deadline (YYYY-MM-DD, empty to clear)")
	goalEditCmd.Flags().StringVarP(&goalEditCategory, "category", "c", "", "New category")
	goalEditCmd.Flags().StringVar(&goalEditStatus, "status", "", "New status (active, completed, on-hold)")
	goalEditCmd.Flags().BoolVarP(&goalEditEdit, "edit", "e", false, "Open $EDITOR (default if interactive and no edit flags)")
	goalEditCmd.Flags().BoolVar(&goalEditNoEdit, "no-edit", false, "Do not open $EDITOR")

	listflags.AddJSONFlag(goalListCmd, &goalListJSON)
	goalListCmd.Flags().StringVarP(&goalListCategory, "category", "c", "", "Filter by category")
	listflags.AddAllFlag(goalListCmd, &goalListAll)

	listflags.AddJSONFlag(goalShowCmd, &goalShowJSON)
}

func runGoalCreate(cmd *cobra.Command, args []string) error {
	_, board, err := boardFor(cmd)
	if err != nil {
		return err
	}

	hasFlags := hasChangedFlags(cmd, "title", "deadline", "category", "milestone")
	useEditor := shouldUseEditor(hasFlags, goalCreateEdit, goalCreateNoEdit, editor.IsInteractive())

	composer := board.GoalComposer()
	if err := composer.Begin(); err != nil {
		return err
	}

	if useEditor {
		data := editor.DefaultGoalData(board.Categories(), composer.Current().Category)
		data.Title = goalCreateTitle
		data.Deadline = goalCreateDeadline
		if goalCreateCategory != "" {
			data.Category = goalCreateCategory
		}
		data.Milestones = goalCreateMilestones

		parsed, err := editor.EditGoal(data)
		if err != nil {
			return err
		}
		if err := composer.Set(parsed.Apply); err != nil {
			return err
		}
	} else {
		if strings.TrimSpace(goalCreateTitle) == "" {
			return fmt.Errorf("title is required (use --edit to open editor)")
		}
		if err := composer.Set(func(g *goal.Goal) {
			g.Title = goalCreateTitle
			g.Deadline = goalCreateDeadline
			if goalCreateCategory != "" {
				g.Category = goal.Category(goalCreateCategory)
			}
			for _, title := range goalCreateMilestones {
				g.Tasks = append(g.Tasks, goal.Task{Title: title})
			}
		}); err != nil {
			return err
		}
	}

	if err := composer.Commit(cmd.Context()); err != nil {
		return err
	}
	created := composer.Committed()
	highlight := goalHighlighter(board.Goals())
	fmt.Fprintf(cmd.OutOrStdout(), "Created goal %s: %s\n", highlight(created.ID), created.Title)
	return nil
}

func runGoalEdit(cmd *cobra.Command, args []string) error {
	_, board, err := boardFor(cmd)
	if err != nil {
		return err
	}
	current, err := board.ResolveGoal(args[0])
	if err != nil {
		return err
	}

	hasFlags := hasChangedFlags(cmd, "title", "deadline", "category", "status")
	useEditor := shouldUseEditor(hasFlags, goalEditEdit, goalEditNoEdit, editor.IsInteractive())
	if !useEditor && !hasFlags {
		return fmt.Errorf("at least one edit flag is required (use --edit to open editor)")
	}

	d, err := board.GoalEditor(current.ID)
	if err != nil {
		return err
	}
	if err := d.Begin(); err != nil {
		return err
	}
	if err := d.Set(func(g *goal.Goal) {
		if cmd.Flags().Changed("title") {
			g.Title = goalEditTitle
		}
		if cmd.Flags().Changed("deadline") {
			g.Deadline = goalEditDeadline
		}
		if cmd.Flags().Changed("category") {
			g.Category = goal.Category(goalEditCategory)
		}
		if cmd.Flags().Changed("status") {
			g.Status = goal.Status(strings.ToLower(strings.TrimSpace(goalEditStatus)))
		}
	}); err != nil {
		return err
	}

	if useEditor {
		parsed, err := editor.EditGoal(editor.DataFromGoal(d.Current(), board.Categories()))
		if err != nil {
			return err
		}
		if err := d.Set(parsed.Apply); err != nil {
			return err
		}
	}

	if err := d.Commit(cmd.Context()); err != nil {
		return err
	}
	updated := d.Committed()
	highlight := goalHighlighter(board.Goals())
	fmt.Fprintf(cmd.OutOrStdout(), "Updated goal %s: %s\n", highlight(updated.ID), updated.Title)
	return nil
}

func runGoalList(cmd *cobra.Command, args []string) error {
	_, board, err := boardFor(cmd)
	if err != nil {
		return err
	}

	all := board.Goals()
	filtered := make([]goal.Goal, 0, len(all))
	for _, g := range all {
		if goalListCategory != "" && !strings.EqualFold(string(g.Category), goalListCategory) {
			continue
		}
		if !goalListAll && metrics.EffectiveStatus(g) == goal.StatusCompleted {
			continue
		}
		filtered = append(filtered, g)
	}

	if goalListJSON {
		return writeJSON(cmd.OutOrStdout(), goalViews(filtered))
	}
	if len(filtered) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), goalEmptyListMessage(len(all), goalListCategory, goalListAll))
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), formatGoalTable(filtered, goalHighlighter(all), now()))
	return nil
}

func runGoalShow(cmd *cobra.Command, args []string) error {
	_, board, err := boardFor(cmd)
	if err != nil {
		return err
	}

	goals := make([]goal.Goal, 0, len(args))
	for _, id := range args {
		g, err := board.ResolveGoal(id)
		if err != nil {
			return err
		}
		goals = append(goals, g)
	}

	if goalShowJSON {
		return writeJSON(cmd.OutOrStdout(), goalViews(goals))
	}
	highlight := goalHighlighter(board.Goals())
	for i, g := range goals {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "---")
		}
		fmt.Fprint(cmd.OutOrStdout(), formatGoalDetail(g, highlight, now()))
	}
	return nil
}

func runGoalDelete(cmd *cobra.Command, args []string) error {
	_, board, err := boardFor(cmd)
	if err != nil {
		return err
	}
	highlight := goalHighlighter(board.Goals())
	for _, id := range args {
		g, err := board.ResolveGoal(id)
		if err != nil {
			return err
		}
		if err := board.DeleteGoal(cmd.Context(), g.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted goal %s: %s\n", highlight(g.ID), g.Title)
	}
	return nil
}

func runGoalToggle(cmd *cobra.Command, args []string) error {
	_, board, err := boardFor(cmd)
	if err != nil {
		return err
	}
	current, err := board.ResolveGoal(args[0])
	if err != nil {
		return err
	}
	taskID, err := resolveTaskID(current, args[1])
	if err != nil {
		return err
	}
	updated, err := board.ToggleTask(cmd.Context(), current.ID, taskID)
	if err != nil {
		return err
	}

	task := updated.Tasks[updated.TaskIndex(taskID)]
	verb := "Reopened"
	if task.Completed {
		verb = "Completed"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %q (%s is %d%% complete)\n", verb, task.Title, updated.Title, metrics.GoalProgress(updated))
	return nil
}

func runGoalMilestone(cmd *cobra.Command, args []string) error {
	_, board, err := boardFor(cmd)
	if err != nil {
		return err
	}
	current, err := board.ResolveGoal(args[0])
	if err != nil {
		return err
	}
	updated, err := board.AddMilestone(cmd.Context(), current.ID, args[1])
	if err != nil {
		return err
	}
	added := updated.Tasks[len(updated.Tasks)-1]
	fmt.Fprintf(cmd.OutOrStdout(), "Added milestone %s to %s: %s\n", added.ID, updated.Title, added.Title)
	return nil
}

// resolveTaskID matches a task by exact ID, then by unique ID prefix.
func resolveTaskID(g goal.Goal, ref string) (string, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return "", fmt.Errorf("%w: empty task ID", goal.ErrTaskNotFound)
	}
	if g.TaskIndex(ref) >= 0 {
		return ref, nil
	}
	match := ""
	for _, task := range g.Tasks {
		if strings.HasPrefix(strings.ToLower(task.ID), ref) {
			if match != "" {
				return "", fmt.Errorf("%w: %q matches more than one task", goal.ErrTaskNotFound, ref)
			}
			match = task.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %q", goal.ErrTaskNotFound, ref)
	}
	return match, nil
}

func goalViews(goals []goal.Goal) []dashboard.GoalView {
	views := make([]dashboard.GoalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, dashboard.GoalView{Goal: g, Progress: metrics.GoalProgress(g)})
	}
	return views
}
