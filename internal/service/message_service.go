package service

import (
	"context"
	"errors"
	"time"

	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/internal/repository"
)

// MessageService 订单内留言，只有买卖双方可读写
type MessageService interface {
	Send(ctx context.Context, orderID, senderID int64, content string) (*model.Message, error)
	List(ctx context.Context, orderID, userID int64) ([]*model.Message, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	orderRepo   repository.OrderRepository
}

func NewMessageService(messageRepo repository.MessageRepository, orderRepo repository.OrderRepository) MessageService {
	return &messageService{messageRepo: messageRepo, orderRepo: orderRepo}
}

func (s *messageService) Send(ctx context.Context, orderID, senderID int64, content string) (*model.Message, error) {
	content = sanitize(content)
	if orderID <= 0 || senderID <= 0 || content == "" {
		return nil, newError(ErrMissingInput, "order_id, sender_id & content required")
	}
	order, err := s.partyOrder(ctx, orderID, senderID)
	if err != nil {
		return nil, err
	}

	receiver := order.SellerID
	if senderID == order.SellerID {
		receiver = order.BuyerID
	}
	msg := &model.Message{
		OrderID:    orderID,
		SenderID:   senderID,
		ReceiverID: receiver,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, storageError("send message", err)
	}
	return msg, nil
}

func (s *messageService) List(ctx context.Context, orderID, userID int64) ([]*model.Message, error) {
	if orderID <= 0 || userID <= 0 {
		return nil, newError(ErrMissingInput, "order_id & user_id required")
	}
	if _, err := s.partyOrder(ctx, orderID, userID); err != nil {
		return nil, err
	}
	msgs, err := s.messageRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, storageError("list messages", err)
	}
	if msgs == nil {
		msgs = []*model.Message{}
	}
	return msgs, nil
}

func (s *messageService) partyOrder(ctx context.Context, orderID, userID int64) (*model.Order, error) {
	order, err := s.orderRepo.GetByOrderID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "Order not found")
	}
	if err != nil {
		return nil, storageError("load order", err)
	}
	if !order.IsParty(userID) {
		return nil, newError(ErrForbidden, "Not part of this order")
	}
	return order, nil
}
