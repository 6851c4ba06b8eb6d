package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bookreview/internal/api"
	"bookreview/internal/listview"
	"bookreview/pkg/domain"
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Browse and manage reviews",
}

var reviewsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reviews for a book",
	RunE:  runReviewsList,
}

var reviewsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your own reviews",
	RunE:  runReviewsMine,
}

var reviewsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Review a book",
	RunE:  runReviewsAdd,
}

var reviewsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit one of your reviews",
	Args:  cobra.ExactArgs(1),
	RunE:  runReviewsEdit,
}

var reviewsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of your reviews",
	Args:  cobra.ExactArgs(1),
	RunE:  runReviewsDelete,
}

var (
	reviewBookID    int
	reviewTitle     string
	reviewContent   string
	reviewRating    int
	reviewSkip      int
	reviewLimit     int
	reviewAssumeYes bool
)

func init() {
	reviewsListCmd.Flags().IntVar(&reviewBookID, "book", 0, "book ID")
	reviewsListCmd.Flags().IntVar(&reviewSkip, "skip", 0, "number of reviews to skip")
	reviewsListCmd.Flags().IntVar(&reviewLimit, "limit", 100, "maximum reviews to return")
	reviewsMineCmd.Flags().IntVar(&reviewSkip, "skip", 0, "number of reviews to skip")
	reviewsMineCmd.Flags().IntVar(&reviewLimit, "limit", 100, "maximum reviews to return")
	reviewsAddCmd.Flags().IntVar(&reviewBookID, "book", 0, "book ID")
	for _, c := range []*cobra.Command{reviewsAddCmd, reviewsEditCmd} {
		c.Flags().StringVar(&reviewTitle, "title", "", "review title")
		c.Flags().StringVar(&reviewContent, "content", "", "review text")
		c.Flags().IntVar(&reviewRating, "rating", 0, "rating from 1 to 5")
	}
	reviewsDeleteCmd.Flags().BoolVar(&reviewAssumeYes, "yes", false, "skip the confirmation prompt")
	reviewsCmd.AddCommand(reviewsListCmd, reviewsMineCmd, reviewsAddCmd, reviewsEditCmd, reviewsDeleteCmd)
}

func runReviewsList(cmd *cobra.Command, args []string) error {
	if reviewBookID == 0 {
		return errors.New("--book is required")
	}
	reviews, err := app.Reviews.ListByBook(cmd.Context(), reviewBookID, reviewSkip, reviewLimit)
	if err != nil {
		return err
	}
	renderReviews(reviews)
	return nil
}

func runReviewsMine(cmd *cobra.Command, args []string) error {
	reviews, err := app.Reviews.Mine(cmd.Context(), reviewSkip, reviewLimit)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			return err
		}
		var cached []domain.Review
		fetchedAt, ok, cacheErr := app.Snapshots.Get("my-reviews", &cached)
		if cacheErr != nil || !ok {
			return err
		}
		fmt.Printf("API unreachable, showing cached list from %s\n", fetchedAt.Local().Format("2006-01-02 15:04"))
		renderReviews(cached)
		return nil
	}
	if err := app.Snapshots.Put("my-reviews", reviews); err != nil {
		return err
	}
	renderReviews(reviews)
	return nil
}

func runReviewsAdd(cmd *cobra.Command, args []string) error {
	if reviewBookID == 0 {
		return errors.New("--book is required")
	}
	if reviewRating < 1 || reviewRating > 5 {
		return errors.New("--rating must be between 1 and 5")
	}
	// Creation is not optimistic: nothing is shown until the server
	// returns the authoritative review.
	review, err := app.Reviews.Create(cmd.Context(), reviewBookID, domain.ReviewDraft{
		Title:   reviewTitle,
		Content: reviewContent,
		Rating:  reviewRating,
	})
	if err != nil {
		if api.IsConflict(err) {
			return fmt.Errorf("you have already reviewed this book")
		}
		return err
	}
	fmt.Printf("Added review %d for book %d.\n", review.ID, review.BookID)
	return nil
}

func runReviewsEdit(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid review ID %q", args[0])
	}
	current, err := app.Reviews.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	list := listview.NewReviewList(app.Reviews)
	list.Replace([]domain.Review{current})
	if err := list.BeginEdit(id); err != nil {
		return err
	}
	item, _ := list.Item(id)
	draft := item.Draft
	flags := cmd.Flags()
	if flags.Changed("title") {
		draft.Title = reviewTitle
	}
	if flags.Changed("content") {
		draft.Content = reviewContent
	}
	if flags.Changed("rating") {
		if reviewRating < 1 || reviewRating > 5 {
			return errors.New("--rating must be between 1 and 5")
		}
		draft.Rating = reviewRating
	}
	if err := list.UpdateDraft(id, draft); err != nil {
		return err
	}
	if err := list.Submit(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("Updated review %d.\n", id)
	return nil
}

func runReviewsDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid review ID %q", args[0])
	}
	current, err := app.Reviews.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	list := listview.NewReviewList(app.Reviews)
	list.Replace([]domain.Review{current})
	if !confirm(fmt.Sprintf("Delete review %q", current.Title), reviewAssumeYes) {
		fmt.Println("Aborted.")
		return nil
	}
	if err := list.ConfirmDelete(id); err != nil {
		return err
	}
	if err := list.Delete(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("Deleted review %d.\n", id)
	return nil
}

func renderReviews(reviews []domain.Review) {
	if len(reviews) == 0 {
		fmt.Println("No reviews.")
		return
	}
	for _, r := range reviews {
		fmt.Printf("%4d  book %-4d  %d/5  %s  %s\n",
			r.ID, r.BookID, r.Rating, r.CreatedAt.Format("2006-01-02"), r.Title)
	}
}
