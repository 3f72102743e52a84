package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	PhotoService *PhotoProduceService
}

var produceInstance *Produce

func InitProduce(channel *amqp.Channel) *Produce {
	if produceInstance != nil {
		return produceInstance
	}

	photoService := InitPhotoProduceService(channel)
	if photoService == nil {
		panic("Failed to initialize Photo produce service")
	}

	produceInstance = &Produce{
		PhotoService: photoService,
	}

	return produceInstance
}

func GetProduce() *Produce {
	if produceInstance == nil {
		panic("Produce not initialized. Call InitProduce() first.")
	}
	return produceInstance
}
