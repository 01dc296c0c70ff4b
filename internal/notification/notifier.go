package notification

import (
	"context"
	"log"

	"github.com/Neomeniam/GeoMemories-DRF/internal/event"
)

// Notifier consumes domain events and decides who to notify. Publishers only
// report what happened; the routing rules live here.
type Notifier struct {
	svc *Service
}

func NewNotifier(svc *Service) *Notifier {
	return &Notifier{svc: svc}
}

func (n *Notifier) Register(bus *event.Bus) {
	bus.Subscribe(event.TypeLikeCreated, n.onLike)
	bus.Subscribe(event.TypeCommentCreated, n.onComment)
	bus.Subscribe(event.TypeFriendRequestCreated, n.onFriendRequest)
}

func (n *Notifier) onLike(ctx context.Context, evt event.Event) {
	e, ok := evt.(event.LikeCreated)
	if !ok || e.LikerID == e.PostAuthorID {
		return
	}
	n.create(ctx, e.LikerID, e.PostAuthorID, TypeLike, &e.PostID)
}

func (n *Notifier) onComment(ctx context.Context, evt event.Event) {
	e, ok := evt.(event.CommentCreated)
	if !ok {
		return
	}
	// Replies notify the parent comment's author, top-level comments the post
	// author. Self-comments notify nobody.
	recipient := e.PostAuthorID
	if e.ParentAuthorID != "" {
		recipient = e.ParentAuthorID
	}
	if recipient == e.AuthorID {
		return
	}
	n.create(ctx, e.AuthorID, recipient, TypeComment, &e.PostID)
}

func (n *Notifier) onFriendRequest(ctx context.Context, evt event.Event) {
	e, ok := evt.(event.FriendRequestCreated)
	if !ok {
		return
	}
	n.create(ctx, e.FromUserID, e.ToUserID, TypeFriendRequest, nil)
}

func (n *Notifier) create(ctx context.Context, sender, recipient, typ string, postID *string) {
	if _, err := n.svc.Create(ctx, sender, recipient, typ, postID); err != nil {
		log.Printf("notification create error: %v", err)
	}
}
