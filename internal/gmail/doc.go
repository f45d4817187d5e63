// Package gmail reads meeting notes emails from Gmail. A notes email links to
// the Google Doc holding the meeting transcript; the client finds those
// emails, decodes their bodies and extracts the linked document IDs so the
// documents can be fetched through the docs package.
//
// The client only reads mail. Each client is bound to one account, and calls
// are traced and counted through the instrumentation package when
// WithMetrics is given.
//
// Example usage:
//
//	client, err := gmail.NewClientForAccount(ctx, "default")
//	if err != nil {
//	    return err
//	}
//
//	messages, err := client.ListMessages(ctx, gmail.SearchOptions{
//	    Label:     "Meetings",
//	    StartDate: "10012026",
//	})
//	if err != nil {
//	    return err
//	}
//
//	for _, msg := range gmail.FilterBySubject(messages, "weekly") {
//	    fmt.Println(msg.Topic(), msg.DocumentIDs())
//	}
package gmail
