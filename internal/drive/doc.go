// Package drive is a small Google Drive v3 client covering what qwilo needs:
// listing the Google Docs of a (possibly nested) folder, reading file
// metadata and moving generated documents into a destination folder.
//
// Each client is bound to one account. Calls are traced and counted through
// the instrumentation package when WithMetrics is given.
//
// Example usage:
//
//	client, err := drive.NewClientForAccount(ctx, "default")
//	if err != nil {
//	    return err
//	}
//
//	docs, err := client.ListDocuments(ctx, drive.ListDocumentsOptions{
//	    FolderID:      "https://drive.google.com/drive/folders/0AbC",
//	    ModifiedAfter: "10012026",
//	    Recursive:     true,
//	})
package drive
