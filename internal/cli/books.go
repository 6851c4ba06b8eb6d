package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"bookreview/internal/api"
	"bookreview/internal/listview"
	"bookreview/pkg/domain"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Browse and manage books",
}

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all books",
	RunE:  runBooksList,
}

var booksShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one book with its reviews",
	Args:  cobra.ExactArgs(1),
	RunE:  runBooksShow,
}

var booksGenresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List available genres",
	RunE:  runBooksGenres,
}

var booksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new book",
	RunE:  runBooksAdd,
}

var booksEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a book",
	Args:  cobra.ExactArgs(1),
	RunE:  runBooksEdit,
}

var booksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a book",
	Args:  cobra.ExactArgs(1),
	RunE:  runBooksDelete,
}

var (
	bookTitle       string
	bookAuthor      string
	bookDescription string
	bookCoverURL    string
	bookYear        int
	bookGenreID     int
	bookAssumeYes   bool
)

func init() {
	for _, c := range []*cobra.Command{booksAddCmd, booksEditCmd} {
		c.Flags().StringVar(&bookTitle, "title", "", "book title")
		c.Flags().StringVar(&bookAuthor, "author", "", "book author")
		c.Flags().StringVar(&bookDescription, "description", "", "book description")
		c.Flags().StringVar(&bookCoverURL, "cover-url", "", "cover image URL")
		c.Flags().IntVar(&bookYear, "year", 0, "publication year")
		c.Flags().IntVar(&bookGenreID, "genre", 0, "genre ID (see 'books genres')")
	}
	booksDeleteCmd.Flags().BoolVar(&bookAssumeYes, "yes", false, "skip the confirmation prompt")
	booksCmd.AddCommand(booksListCmd, booksShowCmd, booksGenresCmd, booksAddCmd, booksEditCmd, booksDeleteCmd)
}

func runBooksList(cmd *cobra.Command, args []string) error {
	books, err := app.Books.List(cmd.Context())
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			return err
		}
		// Transport failure: fall back to the last cached snapshot.
		var cached []domain.Book
		fetchedAt, ok, cacheErr := app.Snapshots.Get("books", &cached)
		if cacheErr != nil || !ok {
			return err
		}
		fmt.Printf("API unreachable, showing cached list from %s\n", fetchedAt.Local().Format("2006-01-02 15:04"))
		renderBooks(cached)
		return nil
	}
	if err := app.Snapshots.Put("books", books); err != nil {
		return err
	}
	renderBooks(books)
	return nil
}

func runBooksShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid book ID %q", args[0])
	}
	view := "book/" + args[0]
	book, err := app.Books.Get(cmd.Context(), id)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			return err
		}
		var cached domain.Book
		fetchedAt, ok, cacheErr := app.Snapshots.Get(view, &cached)
		if cacheErr != nil || !ok {
			return err
		}
		fmt.Printf("API unreachable, showing cached copy from %s\n", fetchedAt.Local().Format("2006-01-02 15:04"))
		renderBook(cached)
		return nil
	}
	if err := app.Snapshots.Put(view, book); err != nil {
		return err
	}
	renderBook(book)
	return nil
}

func runBooksGenres(cmd *cobra.Command, args []string) error {
	genres, err := app.Books.Genres(cmd.Context())
	if err != nil {
		return err
	}
	for _, g := range genres {
		fmt.Printf("%4d  %s\n", g.ID, g.Name)
	}
	return nil
}

func runBooksAdd(cmd *cobra.Command, args []string) error {
	if bookTitle == "" || bookAuthor == "" {
		return errors.New("--title and --author are required")
	}
	if bookCoverURL != "" {
		if _, err := url.ParseRequestURI(bookCoverURL); err != nil {
			return fmt.Errorf("invalid --cover-url: %w", err)
		}
	}
	book, err := app.Books.Create(cmd.Context(), domain.BookDraft{
		Title:         bookTitle,
		Author:        bookAuthor,
		Description:   bookDescription,
		CoverURL:      bookCoverURL,
		PublishedYear: bookYear,
		GenreID:       bookGenreID,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added book %d: %s by %s\n", book.ID, book.Title, book.Author)
	return nil
}

func runBooksEdit(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid book ID %q", args[0])
	}
	current, err := app.Books.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	draft := domain.BookDraft{
		Title:         current.Title,
		Author:        current.Author,
		Description:   current.Description,
		CoverURL:      current.CoverURL,
		PublishedYear: current.PublishedYear,
		GenreID:       current.GenreID,
	}
	flags := cmd.Flags()
	if flags.Changed("title") {
		draft.Title = bookTitle
	}
	if flags.Changed("author") {
		draft.Author = bookAuthor
	}
	if flags.Changed("description") {
		draft.Description = bookDescription
	}
	if flags.Changed("cover-url") {
		draft.CoverURL = bookCoverURL
	}
	if flags.Changed("year") {
		draft.PublishedYear = bookYear
	}
	if flags.Changed("genre") {
		draft.GenreID = bookGenreID
	}
	book, err := app.Books.Update(cmd.Context(), id, draft)
	if err != nil {
		return err
	}
	fmt.Printf("Updated book %d: %s by %s\n", book.ID, book.Title, book.Author)
	return nil
}

func runBooksDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid book ID %q", args[0])
	}
	book, err := app.Books.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	list := listview.NewBookList(app.Books)
	list.Replace([]domain.Book{book})
	if !confirm(fmt.Sprintf("Delete %q", book.Title), bookAssumeYes) {
		fmt.Println("Aborted.")
		return nil
	}
	if err := list.ConfirmDelete(id); err != nil {
		return err
	}
	if err := list.Delete(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("Deleted book %d.\n", id)
	return nil
}

func renderBooks(books []domain.Book) {
	if len(books) == 0 {
		fmt.Println("No books available.")
		return
	}
	for _, b := range books {
		fmt.Printf("%4d  %-40s  %-24s  %d\n", b.ID, b.Title, b.Author, b.PublishedYear)
	}
}

func renderBook(b domain.Book) {
	fmt.Printf("%s by %s (%d)\n", b.Title, b.Author, b.PublishedYear)
	if b.Genre != nil {
		fmt.Printf("Genre: %s\n", b.Genre.Name)
	}
	if b.Description != "" {
		fmt.Println(b.Description)
	}
	if len(b.Reviews) == 0 {
		fmt.Println("No reviews yet.")
		return
	}
	fmt.Printf("Reviews (%d):\n", len(b.Reviews))
	for _, r := range b.Reviews {
		name := "anonymous"
		if r.User != nil {
			name = r.User.Username
		}
		fmt.Printf("  [%d] %s  %d/5  %s — %s\n", r.ID, r.CreatedAt.Format("2006-01-02"), r.Rating, r.Title, name)
		if r.Content != "" {
			fmt.Printf("      %s\n", r.Content)
		}
	}
}
